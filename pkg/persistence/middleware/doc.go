// Package middleware wraps document stores with cross-cutting behavior such as encryption at rest.
package middleware
