package container_test

import (
	"errors"
	"math"

	"github.com/km-arc/chefling/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

// noParam has a constructor without parameters and counts lifecycle calls.
type noParam struct {
	created   int
	destroyed int
}

func newNoParam() *noParam { return &noParam{} }

func (n *noParam) OnCreate()  { n.created++ }
func (n *noParam) OnDestroy() { n.destroyed++ }

// oneParam depends on noParam.
type oneParam struct{ param *noParam }

func newOneParam(p *noParam) *oneParam { return &oneParam{param: p} }

// shape is the interface behind the subtype chain A → B → C → D.
type shape interface{ Area() float64 }

type square struct{ side float64 }

func (s *square) Area() float64 { return s.side * s.side }

type circle struct{ radius float64 }

func (c *circle) Area() float64 { return math.Pi * c.radius * c.radius }

func newShape() shape { return &square{side: 1} }

// loop, ping and pong form dependency cycles through named dependencies.
type loop struct{ self *loop }

func newLoop(self *loop) *loop { return &loop{self: self} }

type ping struct{ pong *pong }
type pong struct{ ping *ping }

func newPing(p *pong) *ping { return &ping{pong: p} }
func newPong(p *ping) *pong { return &pong{ping: p} }

var errOvenBroken = errors.New("oven broken")

var (
	noParamType  = container.MustDefine("NoParam", newNoParam)
	oneParamType = container.MustDefine("OneParam", newOneParam,
		container.Needs(container.Ref(noParamType)))

	shapeA = container.MustDefine("A", newShape)
	shapeB = container.MustDefine("B", newShape, container.Extends(shapeA))
	shapeC = container.MustDefine("C", newShape, container.Extends(shapeB))
	shapeD = container.MustDefine("D", func() *square { return &square{side: 2} },
		container.Extends(shapeC))
	circleType = container.MustDefine("Circle", func() *circle { return &circle{radius: 1} },
		container.Extends(shapeA))

	loopType = container.MustDefine("Loop", newLoop, container.Needs(container.Named("Loop")))
	pingType = container.MustDefine("Ping", newPing, container.Needs(container.Named("Pong")))
	pongType = container.MustDefine("Pong", newPong, container.Needs(container.Ref(pingType)))

	brokenType = container.MustDefine("Broken", func() (*noParam, error) {
		return nil, errOvenBroken
	})
	panickyType = container.MustDefine("Panicky", func() *noParam {
		panic("boom")
	})
)

// cycleLoader resolves the names used by the cycle fixtures.
func cycleLoader() container.Loader {
	reg := container.NewTypeRegistry()
	reg.MustRegister(loopType, pingType, pongType)
	return reg.Load
}
