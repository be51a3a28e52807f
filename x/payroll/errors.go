package payroll

import "github.com/iov-one/openpayroll/errors"

var (
	ErrNotOwner                           = errors.Register(400, "not the owner")
	ErrContractIsPaused                   = errors.Register(401, "payroll is paused")
	ErrInvalidParams                      = errors.Register(402, "invalid parameters")
	ErrInvalidMultipliersLength           = errors.Register(403, "invalid multipliers length")
	ErrDuplicatedBeneficiaries            = errors.Register(404, "duplicated beneficiaries")
	ErrDuplicatedMultipliers              = errors.Register(405, "duplicated multipliers")
	ErrAccountNotFound                    = errors.Register(406, "account not found")
	ErrMultiplierNotFound                 = errors.Register(407, "multiplier not found")
	ErrAccountAlreadyExists               = errors.Register(408, "account already exists")
	ErrMultiplierAlreadyDeactivated       = errors.Register(409, "multiplier already deactivated")
	ErrMaxBeneficiariesExceeded           = errors.Register(410, "max beneficiaries exceeded")
	ErrMaxMultipliersExceeded             = errors.Register(411, "max multipliers exceeded")
	ErrNotEnoughBalanceInTreasury         = errors.Register(412, "not enough balance in treasury")
	ErrClaimedAmountIsBiggerThanAvailable = errors.Register(413, "claimed amount is bigger than available")
	ErrTransferFailed                     = errors.Register(414, "transfer failed")
	ErrNotAllClaimedInPeriod              = errors.Register(415, "not all beneficiaries claimed in period")
	ErrMultiplierNotDeactivated           = errors.Register(416, "multiplier not deactivated")
	ErrMultiplierNotExpired               = errors.Register(417, "multiplier not expired")
)
