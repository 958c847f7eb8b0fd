package gconf

import (
	"reflect"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// OwnedConfig must have an Owner field. A configuration update message must
// be submitted by the owner in order to be authorized to apply the change.
type OwnedConfig interface {
	Unmarshaler
	ValidMarshaler
	GetOwner() relay.Address
}

// UpdateConfigurationHandler applies configuration patches. The message
// must have a Patch field holding a pointer of the configuration type.
// Non-zero fields of the patch replace the stored values.
type UpdateConfigurationHandler struct {
	pkg        string
	configType reflect.Type
}

var _ relay.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler patching the
// configuration of pkg. config is only used for its type and must be a
// pointer to a struct.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig) UpdateConfigurationHandler {
	t := reflect.TypeOf(config)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic("configuration must be a pointer to a struct")
	}
	return UpdateConfigurationHandler{pkg: pkg, configType: t.Elem()}
}

func (h UpdateConfigurationHandler) Deliver(ctx relay.Context, store relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	config := reflect.New(h.configType).Interface().(OwnedConfig)
	if err := Load(store, h.pkg, config); err != nil {
		return nil, errors.Wrap(err, "load current configuration")
	}

	owner := config.GetOwner()
	if relay.IsZeroAddress(owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
	}
	if caller, ok := relay.GetCaller(ctx); !ok || caller != owner {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner did not submit the update")
	}

	patch, err := patchPayload(tx, h.configType)
	if err != nil {
		return nil, err
	}
	applyPatch(reflect.ValueOf(config).Elem(), patch.Elem())

	if err := Save(store, h.pkg, config); err != nil {
		return nil, errors.Wrap(err, "save updated configuration")
	}
	return &relay.DeliverResult{Log: "configuration updated"}, nil
}

// applyPatch copies the non-zero fields of patch into config.
func applyPatch(config, patch reflect.Value) {
	for i := 0; i < config.NumField(); i++ {
		if f := patch.Field(i); !f.IsZero() {
			config.Field(i).Set(f)
		}
	}
}

// patchPayload validates the message and returns its Patch field.
func patchPayload(tx relay.Tx, configType reflect.Type) (reflect.Value, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return reflect.Value{}, errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return reflect.Value{}, err
	}

	m := reflect.ValueOf(msg)
	if m.Kind() != reflect.Ptr || m.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := m.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return reflect.Value{}, errors.Wrapf(errors.ErrInput, "%T has no Patch field", msg)
	}
	if field.Type().Elem() != configType {
		return reflect.Value{}, errors.Wrap(errors.ErrInput, "config in message doesn't match store")
	}
	if field.IsNil() {
		return reflect.Value{}, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	return field, nil
}
