package iniconf

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag consulted by Decode.
const TagName = "ini"

// Decode copies the tree into target, which must be a non-nil pointer to a
// struct or map. Sections map to nested structs or maps. Since all scalars
// are text, weak typing is enabled: "true", "1", "30s" or "a,b,c" decode
// into bool, int, time.Duration and []string fields.
func (n *Node) Decode(target any) error {
	return decode(n.ToMap(), target)
}

// DecodeSection decodes the named section into target. A missing section
// decodes as empty, leaving target untouched.
func (n *Node) DecodeSection(name string, target any) error {
	v, found := n.Lookup(name)
	if !found {
		return decode(map[string]any{}, target)
	}
	if !v.IsSection() {
		return &NamespaceConflictError{Key: name, Origin: n.origin[name]}
	}

	return decode(v.Node().ToMap(), target)
}

func decode(in map[string]any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToIPHookFunc(),
			mapstructure.StringToIPNetHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(in); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	return nil
}
