package compiler

import "fmt"

func errNoLoop(kw string) error {
	return fmt.Errorf("compiler: %q outside any loop", kw)
}

func errUnknownKind(k Kind) error {
	return fmt.Errorf("compiler: unknown expr kind %d", k)
}
