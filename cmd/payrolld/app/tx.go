package app

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/x/cash"
	"github.com/iov-one/openpayroll/x/payroll"
	"github.com/iov-one/openpayroll/x/sigs"
)

// Tx is the transaction envelope accepted by the node. The message is
// carried serialized together with its routing path, so that the decoder
// knows which message type to unmarshal the payload into.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	Path       string               `protobuf:"bytes,2,opt,name=path,proto3" json:"path,omitempty"`
	Payload    []byte               `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// make sure tx fulfills all interfaces
var _ ledger.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// messages maps a routing path to a constructor of the message it
// carries.
var messages = map[string]func() ledger.Msg{}

func registerMsg(constructors ...func() ledger.Msg) {
	for _, newMsg := range constructors {
		path := newMsg().Path()
		if _, ok := messages[path]; ok {
			panic(fmt.Sprintf("message %q already registered", path))
		}
		messages[path] = newMsg
	}
}

func init() {
	registerMsg(
		func() ledger.Msg { return new(cash.SendMsg) },
		func() ledger.Msg { return new(payroll.RegisterBeneficiaryMsg) },
		func() ledger.Msg { return new(payroll.UpdateBeneficiaryMsg) },
		func() ledger.Msg { return new(payroll.RemoveBeneficiaryMsg) },
		func() ledger.Msg { return new(payroll.AddMultiplierMsg) },
		func() ledger.Msg { return new(payroll.DeactivateMultiplierMsg) },
		func() ledger.Msg { return new(payroll.DeleteMultiplierMsg) },
		func() ledger.Msg { return new(payroll.UpdateBasePaymentMsg) },
		func() ledger.Msg { return new(payroll.UpdatePeriodicityMsg) },
		func() ledger.Msg { return new(payroll.PauseMsg) },
		func() ledger.Msg { return new(payroll.ResumeMsg) },
		func() ledger.Msg { return new(payroll.TransferOwnershipMsg) },
		func() ledger.Msg { return new(payroll.AcceptOwnershipMsg) },
		func() ledger.Msg { return new(payroll.ClaimMsg) },
	)
}

// NewTx wraps given message into an unsigned transaction.
func NewTx(msg ledger.Msg) (*Tx, error) {
	if _, ok := messages[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", msg.Path())
	}
	payload, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return &Tx{Path: msg.Path(), Payload: payload}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (ledger.Tx, error) {
	tx := new(Tx)
	if err := proto.Unmarshal(bz, tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

// GetMsg decodes the payload into the message type registered for the path.
func (tx *Tx) GetMsg() (ledger.Msg, error) {
	newMsg, ok := messages[tx.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", tx.Path)
	}
	msg := newMsg()
	if err := proto.Unmarshal(tx.Payload, msg); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "cannot decode %s: %s", tx.Path, err)
	}
	return msg, nil
}

// GetSignatures returns all signatures of this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of the
// signed content.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Path: tx.Path, Payload: tx.Payload}
	bz, err := proto.Marshal(&unsigned)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}
