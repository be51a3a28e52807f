package payroll

import (
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
)

const (
	pathRegisterBeneficiary  = "payroll/register_beneficiary"
	pathUpdateBeneficiary    = "payroll/update_beneficiary"
	pathRemoveBeneficiary    = "payroll/remove_beneficiary"
	pathAddMultiplier        = "payroll/add_multiplier"
	pathDeactivateMultiplier = "payroll/deactivate_multiplier"
	pathDeleteMultiplier     = "payroll/delete_multiplier"
	pathUpdateBasePayment    = "payroll/update_base_payment"
	pathUpdatePeriodicity    = "payroll/update_periodicity"
	pathPause                = "payroll/pause"
	pathResume               = "payroll/resume"
	pathTransferOwnership    = "payroll/transfer_ownership"
	pathAcceptOwnership      = "payroll/accept_ownership"
	pathClaim                = "payroll/claim"
)

var (
	_ ledger.Msg = (*RegisterBeneficiaryMsg)(nil)
	_ ledger.Msg = (*UpdateBeneficiaryMsg)(nil)
	_ ledger.Msg = (*RemoveBeneficiaryMsg)(nil)
	_ ledger.Msg = (*AddMultiplierMsg)(nil)
	_ ledger.Msg = (*DeactivateMultiplierMsg)(nil)
	_ ledger.Msg = (*DeleteMultiplierMsg)(nil)
	_ ledger.Msg = (*UpdateBasePaymentMsg)(nil)
	_ ledger.Msg = (*UpdatePeriodicityMsg)(nil)
	_ ledger.Msg = (*PauseMsg)(nil)
	_ ledger.Msg = (*ResumeMsg)(nil)
	_ ledger.Msg = (*TransferOwnershipMsg)(nil)
	_ ledger.Msg = (*AcceptOwnershipMsg)(nil)
	_ ledger.Msg = (*ClaimMsg)(nil)
)

func (RegisterBeneficiaryMsg) Path() string { return pathRegisterBeneficiary }

func (m *RegisterBeneficiaryMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return validateWeights(m.Weights)
}

func (UpdateBeneficiaryMsg) Path() string { return pathUpdateBeneficiary }

func (m *UpdateBeneficiaryMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return validateWeights(m.Weights)
}

func (RemoveBeneficiaryMsg) Path() string { return pathRemoveBeneficiary }

func (m *RemoveBeneficiaryMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return errors.Wrap(m.Address.Validate(), "address")
}

func (AddMultiplierMsg) Path() string { return pathAddMultiplier }

func (m *AddMultiplierMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateMultiplierName(m.Name)
}

func (DeactivateMultiplierMsg) Path() string { return pathDeactivateMultiplier }

func (m *DeactivateMultiplierMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.MultiplierID == 0 {
		return errors.Wrap(ErrMultiplierNotFound, "zero multiplier id")
	}
	return nil
}

func (DeleteMultiplierMsg) Path() string { return pathDeleteMultiplier }

func (m *DeleteMultiplierMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.MultiplierID == 0 {
		return errors.Wrap(ErrMultiplierNotFound, "zero multiplier id")
	}
	return nil
}

func (UpdateBasePaymentMsg) Path() string { return pathUpdateBasePayment }

func (m *UpdateBasePaymentMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.BasePayment == 0 {
		return errors.Wrap(ErrInvalidParams, "base payment must be positive")
	}
	return nil
}

func (UpdatePeriodicityMsg) Path() string { return pathUpdatePeriodicity }

func (m *UpdatePeriodicityMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Periodicity <= 0 {
		return errors.Wrap(ErrInvalidParams, "periodicity must be positive")
	}
	return nil
}

func (PauseMsg) Path() string { return pathPause }

func (m *PauseMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

func (ResumeMsg) Path() string { return pathResume }

func (m *ResumeMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

func (TransferOwnershipMsg) Path() string { return pathTransferOwnership }

func (m *TransferOwnershipMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.NewOwner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidParams, "new owner")
	}
	return nil
}

func (AcceptOwnershipMsg) Path() string { return pathAcceptOwnership }

func (m *AcceptOwnershipMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

func (ClaimMsg) Path() string { return pathClaim }

// Validate accepts a zero amount, which settles the current period
// without a payment.
func (m *ClaimMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return errors.Wrap(m.Address.Validate(), "address")
}
