// Package stow implements the type-erased storage engine backing the
// bags of the holdall package: a registry of runtime type keys and a
// directory mapping each key to a bucket of erased value slots. The
// Directory type is the sequential engine, SyncDirectory the
// shared-access one.
package stow

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"
	"unsafe"
)

// TypeId is a small dense identifier issued to every registered type
// in registration order.
type TypeId uint32

// Type identifies one static Go type. There is exactly one canonical
// *Type per registered type, so types compare and hash by pointer
// identity. Instances are created by TypeOf and live for the rest of
// the process; they are never serialized.
type Type struct {
	// Name is the string representation of the registered type.
	Name string

	// Reflect is the reflect.Type this Type was registered for.
	Reflect reflect.Type

	// The id of the type
	id TypeId
}

func (t *Type) Id() TypeId {
	return t.id
}

// Less orders types by registration id. The order is total and stable
// for the lifetime of the process, but carries no meaning beyond that.
func (t *Type) Less(other *Type) bool {
	return t.id < other.id
}

func (t *Type) String() string {
	return t.Name
}

var registeredTypes atomic.Pointer[map[unsafe.Pointer]*Type]

func init() {
	// initialize the lookup table
	registeredTypes.Store(&map[unsafe.Pointer]*Type{})
}

// TypeOf returns the canonical *Type of the static type T. Two calls
// with the identical type parameter always return the same pointer.
// Note that this keys on the static type: TypeOf[int] and TypeOf[any]
// are distinct even when the any holds an int.
func TypeOf[T any]() *Type {
	reflectType := reflect.TypeFor[T]()
	ptrToType := abiTypePointerTo(reflectType)

	if cached, ok := (*registeredTypes.Load())[ptrToType]; ok {
		return cached
	}

	return ensureType(ptrToType, reflectType)
}

func ensureType(ptrToType unsafe.Pointer, reflectType reflect.Type) *Type {
	for {
		previousTypes := registeredTypes.Load()
		if cached, ok := (*previousTypes)[ptrToType]; ok {
			return cached
		}

		newType := &Type{
			Name:    reflectType.String(),
			Reflect: reflectType,
			id:      TypeId(len(*previousTypes) + 1),
		}

		newTypes := maps.Clone(*previousTypes)
		newTypes[ptrToType] = newType

		if registeredTypes.CompareAndSwap(previousTypes, &newTypes) {
			slog.Debug(
				"New bag type registered",
				slog.String("name", newType.Name),
				slog.Int("id", int(newType.id)),
			)

			return newType
		}
	}
}

func abiTypePointerTo(t reflect.Type) unsafe.Pointer {
	type eface struct {
		typ, val unsafe.Pointer
	}

	// a reflect.Type is backed by an *rType. The rType contains a abi.Type as
	// its first value. This means, that a *rType can be re-interpreted as *abi.Type
	return (*eface)(unsafe.Pointer(&t)).val
}
