// Package calculator safely evaluates arithmetic from untrusted text.
//
// Input is parsed into a syntax tree and checked against a fixed whitelist of
// operators, functions, and constants before anything is evaluated. Nothing
// outside the whitelist can be reached from an expression: there are no
// attributes, subscripts, strings, assignments, or calls to arbitrary names.
//
// The syntax is conventional arithmetic. "2 + 3 * 4" is 14, "-2**2" is -4, and
// "**" is right associative. A name or parenthesis directly after a term
// multiplies, so "2x" and "3(x+1)" work in equations. Lists like "[1, 2, 3]"
// are arguments to aggregate functions like mean and max.
//
// Calculate is the single entry point: it decides whether text is an
// expression, a linear equation in one variable such as "2x + 3 = 7", or a
// batch of either separated by semicolons, and handles it accordingly.
// Every function in the package is safe for concurrent use.
package calculator
