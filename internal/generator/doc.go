// Package generator turns kernel sources into embeddable C artifacts.
//
// Each kernel runs through the same linear pipeline, with no state shared
// between kernels:
//
//	Load -> StripComments -> Normalize -> Compact -> Alias -> Escape -> Chunk -> Emit
//
// Basic usage:
//
//	gen := generator.New(logger,
//	    generator.WithOutputDir(".."),
//	    generator.WithPrefix("opencl___"),
//	)
//	results, err := gen.Run(ctx, specs)
//
// Run processes kernels in order and stops at the first failure. Artifacts
// already written for earlier kernels are left in place.
package generator
