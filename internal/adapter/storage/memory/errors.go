package memory

import "fmt"

func errNotFound(kind, key string) error {
	return fmt.Errorf("%s not found: %s", kind, key)
}
