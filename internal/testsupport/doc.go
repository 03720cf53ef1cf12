// Package testsupport holds fixtures shared by package tests: temp configs,
// fake music libraries, and line-oriented file helpers.
package testsupport
