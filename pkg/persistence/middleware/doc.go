// Package middleware provides StateStore decorators.
//
// Stores are wrapped rather than modified, so any adapter (memory, file or
// Redis) can be sealed with NewEncryptionMiddleware:
//
//	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
//	store := mw(file.New(dir))
package middleware
