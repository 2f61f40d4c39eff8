// Package baker is a minimal recipe-driven build runner.
package baker

// Version is the released version of bake.
const Version = "0.4.1"
