package object

import (
	"go.uber.org/zap"

	"github.com/lemonbalms/comrt"
	"github.com/lemonbalms/comrt/errors"
)

// resolve finds a dispatch table satisfying id, first match wins:
// the identity interface, then the directly implemented interfaces by
// ancestor-chain membership, then the aggregated inners in declaration
// order. Every success takes exactly one reference on this core; a
// failed resolution mutates nothing.
func (c *Core) resolve(id comrt.InterfaceID) (*DispatchTable, error) {
	c.checkLive()

	if id == comrt.IdentityID {
		n := c.refs.Increment()
		Logger().Debug("query resolved",
			zap.String("object", c.name),
			zap.String("iface", "identity"),
			zap.Uint32("refs", n))
		return c.nonDel, nil
	}

	for _, t := range c.tables {
		if !t.desc.Satisfies(id) {
			continue
		}
		n := c.refs.Increment()
		Logger().Debug("query resolved",
			zap.String("object", c.name),
			zap.String("iface", t.desc.Name),
			zap.Uint32("refs", n))
		return t, nil
	}

	for _, in := range c.inners {
		if in.identity == nil {
			// Unwired field: same as a failed forward.
			continue
		}
		if !in.forwardable(id) {
			continue
		}
		ptr, err := in.identity.QueryInterface(id)
		if err != nil {
			continue
		}
		// The inner's query took one reference on the inner. Hand the
		// accounting over to this object: the caller's outstanding
		// reference lives on the outer's count alone.
		in.identity.Release()
		n := c.refs.Increment()
		Logger().Debug("query resolved via aggregate",
			zap.String("object", c.name),
			zap.String("field", in.field),
			zap.String("iface", ptr.desc.Name),
			zap.Uint32("refs", n))
		return ptr, nil
	}

	Logger().Debug("query failed",
		zap.String("object", c.name),
		zap.String("iface", id.String()))
	return nil, errors.NoInterface(id)
}
