package builder

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Env map[string]string

func Environment() Env {
	return map[string]string{
		"HWC_OUTPUT":   getenv("HWC_OUTPUT", ""),
		"HWC_VOLATILE": getenv("HWC_VOLATILE", "runtime/volatile"),
		"HWC_TARGETS":  getenv("HWC_TARGETS", ""),
		"HWC_HAL":      getenv("HWC_HAL", ""),
	}
}

func (e Env) Print(w io.Writer) {
	for _, k := range e.keys() {
		fmt.Fprintf(w, "set %s=%s\n", k, e[k])
	}
}

func (e Env) Value(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return ""
}

func (e Env) List() []string {
	var result []string
	for _, key := range e.keys() {
		result = append(result, fmt.Sprintf("%s=%s", key, e[key]))
	}
	return result
}

func (e Env) keys() []string {
	keys := maps.Keys(e)
	slices.Sort(keys)
	return keys
}

func getenv(key, _default string) (value string) {
	value = os.Getenv(key)
	if len(value) == 0 {
		value = _default
	}
	return value
}
