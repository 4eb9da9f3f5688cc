// Package mcp exposes calculator sessions to agents over the Model Context
// Protocol.
package mcp
