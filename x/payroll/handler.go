package payroll

import (
	"github.com/gogo/protobuf/proto"
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, cash CashController) {
	ctrl := NewController(cash)
	admin := AdminHandler{auth: auth, ctrl: ctrl}
	for _, path := range []string{
		pathRegisterBeneficiary,
		pathUpdateBeneficiary,
		pathRemoveBeneficiary,
		pathAddMultiplier,
		pathDeactivateMultiplier,
		pathDeleteMultiplier,
		pathUpdateBasePayment,
		pathUpdatePeriodicity,
		pathPause,
		pathResume,
		pathTransferOwnership,
	} {
		r.Handle(path, admin)
	}
	r.Handle(pathAcceptOwnership, AcceptOwnershipHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathClaim, ClaimHandler{auth: auth, ctrl: ctrl})
}

// AdminHandler processes all messages that only the owner is allowed to
// send.
type AdminHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ ledger.Handler = AdminHandler{}

// Check verifies the message is well formed and signed by the owner.
func (h AdminHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

// Deliver applies the administrative change.
func (h AdminHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}

	res := &ledger.DeliverResult{}
	switch msg := msg.(type) {
	case *RegisterBeneficiaryMsg:
		err = h.ctrl.RegisterBeneficiary(db, now, msg.Address, msg.Weights)
	case *UpdateBeneficiaryMsg:
		err = h.ctrl.UpdateBeneficiary(db, now, msg.Address, msg.Weights)
	case *RemoveBeneficiaryMsg:
		err = h.ctrl.RemoveBeneficiary(db, msg.Address)
	case *AddMultiplierMsg:
		var id uint64
		if id, err = h.ctrl.AddMultiplier(db, msg.Name); err == nil {
			res.Data = multiplierKey(id)
		}
	case *DeactivateMultiplierMsg:
		err = h.ctrl.DeactivateMultiplier(db, now, msg.MultiplierID)
	case *DeleteMultiplierMsg:
		err = h.ctrl.DeleteMultiplier(db, now, msg.MultiplierID)
	case *UpdateBasePaymentMsg:
		err = h.ctrl.UpdateBasePayment(db, now, msg.BasePayment)
	case *UpdatePeriodicityMsg:
		err = h.ctrl.UpdatePeriodicity(db, now, msg.Periodicity)
	case *PauseMsg:
		err = h.ctrl.Pause(db, now)
	case *ResumeMsg:
		err = h.ctrl.Resume(db)
	case *TransferOwnershipMsg:
		err = h.ctrl.TransferOwnership(db, msg.NewOwner)
	default:
		err = errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	if err != nil {
		return nil, err
	}
	ledger.GetLogger(ctx).Info("payroll updated",
		"path", msg.Path(),
		"signer", x.MainSigner(ctx, h.auth),
		"height", now)
	return res, nil
}

func (h AdminHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.Msg, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(ErrNotOwner, "owner signature missing")
	}
	return msg, nil
}

// AcceptOwnershipHandler lets the nominee take over the ownership.
type AcceptOwnershipHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ ledger.Handler = AcceptOwnershipHandler{}

// Check verifies the message is signed by the nominee.
func (h AcceptOwnershipHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

// Deliver swaps the owner.
func (h AcceptOwnershipHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	nominee, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.AcceptOwnership(db, nominee); err != nil {
		return nil, err
	}
	ledger.GetLogger(ctx).Info("payroll ownership accepted", "owner", nominee)
	return &ledger.DeliverResult{}, nil
}

func (h AcceptOwnershipHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.Address, error) {
	var msg AcceptOwnershipMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if len(conf.PendingOwner) == 0 || !h.auth.HasAddress(ctx, conf.PendingOwner) {
		return nil, errors.Wrap(ErrNotOwner, "nominee signature missing")
	}
	return conf.PendingOwner, nil
}

// ClaimHandler pays beneficiaries. Anyone can trigger a claim, the funds
// always go to the beneficiary.
type ClaimHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ ledger.Handler = ClaimHandler{}

// Check verifies the message is well formed and claims are allowed.
func (h ClaimHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg ClaimMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if conf.IsPaused() {
		return nil, errors.Wrapf(ErrContractIsPaused, "since %d", conf.PausedBlockAt)
	}
	return &ledger.CheckResult{}, nil
}

// Deliver settles the period and pays the claimed amount. The remaining
// owed balance is returned as an encoded AmountResponse.
func (h ClaimHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg ClaimMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	now, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	remaining, err := h.ctrl.Claim(db, now, msg.Address, msg.Amount)
	if err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(&AmountResponse{Amount: remaining})
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	ledger.GetLogger(ctx).Info("payroll claim",
		"beneficiary", msg.Address,
		"submitter", x.MainSigner(ctx, h.auth),
		"amount", msg.Amount,
		"remaining", remaining)
	return &ledger.DeliverResult{Data: raw}, nil
}

// loadMsg returns the validated message of the transaction.
func loadMsg(tx ledger.Tx) (ledger.Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	return msg, nil
}

func blockHeight(ctx ledger.Context) (int64, error) {
	now, ok := ledger.GetHeight(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block height not set")
	}
	return now, nil
}
