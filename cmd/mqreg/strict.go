package main

import "fmt"

// partialFailure turns failed queue operations into a command error when
// --strict is set. Otherwise failures are only reported as text.
func (c *commandContext) partialFailure(failed int) error {
	if failed == 0 || !c.strict() {
		return nil
	}
	if failed == 1 {
		return fmt.Errorf("1 queue operation failed")
	}
	return fmt.Errorf("%d queue operations failed", failed)
}
