package rules

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
)

// Parse overlays a YAML document on the built-in table. Lists present in the
// document replace the defaults; absent lists keep them. Unknown keys are rejected.
func Parse(raw []byte) (*Set, error) {
	t := Default()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidRules, "failed to parse rules file", err)
	}

	set, err := Compile(t)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidRules, "failed to compile rules", err)
	}
	return set, nil
}

// LoadFile reads a YAML rule overlay. An empty path yields the built-in set.
func LoadFile(path string) (*Set, error) {
	if path == "" {
		return Builtin(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to read rules file %s", path), err)
	}
	return Parse(raw)
}
