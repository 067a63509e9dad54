// Package testsupport holds helpers shared by mqreg tests: a temp-dir
// backed configuration builder and an in-memory queue facility with error
// injection.
package testsupport
