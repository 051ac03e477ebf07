// Package logx is a thin structured-logging facade over zerolog.
//
// It exists so the rest of the codebase does not depend on zerolog types
// directly, and so sinks/levels can be swapped at runtime (config hot
// reload) without re-plumbing loggers through every component.
package logx
