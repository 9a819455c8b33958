// Package testutil provides deterministic helpers shared by package tests.
package testutil
