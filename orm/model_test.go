package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/openpayroll/errors"
)

// counter is a minimal protobuf model used by the tests.
type counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

func (m *counter) Reset()         { *m = counter{} }
func (m *counter) String() string { return proto.CompactTextString(m) }
func (*counter) ProtoMessage()    {}

func (m *counter) Validate() error {
	if m.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

// label is a second model type, used to check type safety.
type label struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *label) Reset()         { *m = label{} }
func (m *label) String() string { return proto.CompactTextString(m) }
func (*label) ProtoMessage()    {}
func (*label) Validate() error  { return nil }

// valueModel implements Model with value receivers, so a non-pointer
// value can be passed where a Model is expected.
type valueModel struct{}

func (valueModel) Reset()          {}
func (valueModel) String() string  { return "valueModel" }
func (valueModel) ProtoMessage()   {}
func (valueModel) Validate() error { return nil }
