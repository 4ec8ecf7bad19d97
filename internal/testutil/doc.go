// Package testutil holds mocks, fixtures and assertions shared by the
// package tests.
package testutil
