// Package pipeline runs the provisioning steps in order and turns their
// outcome into a process exit code.
//
// A run moves through the states
//
//	Start -> Prepared -> Fetched -> Catalogued -> Normalized -> Patched -> Permissioned -> Done
//
// and any state may fall to Failed. The first failing step ends the run:
// later steps are skipped, the error goes to the report sink, and Run
// returns ExitFailure. A panic inside a step is recovered and reported the
// same way, as a FaultError.
package pipeline
