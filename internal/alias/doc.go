// Package alias renames kernel identifiers to short tokens.
//
// A Spec lists the identifiers to rename in one of two shapes:
//
//   - Explicit: ordered (alias, name) pairs written by hand
//   - Positional: ordered names; entry i becomes "_<namespace>_<hex i>"
//
// Two strategies apply a Spec to the text. StrategyToken lexes the source with
// chroma's C lexer and renames only whole identifier tokens, so the order of
// entries does not matter. StrategyText replaces raw substrings in list order;
// it is kept for tables written against that behavior and is validated first
// so that overlapping names fail instead of corrupting the output.
//
// Configuration via .clpack.yaml:
//
//	strategy: token
//	kernels:
//	  - source: blur.c
//	    aliases:
//	      - { alias: _0, name: WIDTH }
//	  - source: blur_h.c
//	    names: [WIDTH, HEIGHT]
package alias
