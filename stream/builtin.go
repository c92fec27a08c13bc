package stream

import (
	"fmt"
	"os"
)

// Builtin opens plain files.
type Builtin struct{}

// Name implements Plugin.
func (Builtin) Name() string { return "builtin" }

// Aliases implements Plugin.
func (Builtin) Aliases() []string { return []string{"file"} }

// Open implements Plugin.
func (Builtin) Open(name string, mode Mode, _ Options) (Stream, error) {
	switch mode {
	case ModeRead:
		fh, err := os.Open(name)
		if err != nil {
			return nil, err
		}

		return readOnly{fh}, nil
	case ModeWrite:
		fh, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}

		return writeOnly{fh}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMode, mode)
	}
}

// Info implements Plugin.
func (b Builtin) Info(name string, opts Options) Info {
	return Info{
		Name:        name,
		Method:      b.Name(),
		Description: fmt.Sprintf("Builtin: opts=%v", opts),
	}
}
