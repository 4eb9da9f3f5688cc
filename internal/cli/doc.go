// Package cli wires configuration into a ready Calculator for the abacus
// commands.
package cli
