package multisig

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// Activate performs the one time transition of a managed wallet from
// Inactive to Active, setting its owners and threshold. Only the manager
// may activate.
func Activate(w *Wallet, caller relay.Address, owners []relay.Address, threshold uint8, maxOwners int) error {
	if !w.Variant.Policy().Managed {
		return errors.Wrapf(errors.ErrLifecycle, "%s wallet cannot be activated", w.Variant)
	}
	if w.State != Inactive {
		return errors.Wrap(errors.ErrLifecycle, "wallet already active")
	}
	if caller != w.Manager {
		return errors.Wrap(errors.ErrLifecycle, "only the manager can activate")
	}
	if err := ValidateOwners(owners, threshold, maxOwners); err != nil {
		return err
	}
	w.Owners = append([]relay.Address(nil), owners...)
	w.Threshold = threshold
	w.State = Active
	return nil
}
