// Package ast defines the syntax tree produced by package parser and
// consumed by package optimizer and package eval. It is
// a leaf package: it depends only on sym, so that packages needing a
// Value representation of a closure body (package value) can import ast
// without creating a cycle.
package ast
