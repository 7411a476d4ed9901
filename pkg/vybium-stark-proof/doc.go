// Package vybiumstarkproof is the public API for STARK proof containers and
// their security estimation.
//
// A StarkProof bundles everything a verifier receives: the proof context
// (trace layout, field modulus and protocol options), Merkle commitments,
// query openings, the out-of-domain frame, the FRI proof and the
// proof-of-work nonce. Proofs encode to a compact, self-describing byte
// string and decode back without any side information.
//
// # Decoding a proof
//
//	proof, err := vybiumstarkproof.FromBytes(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("trace length:", proof.TraceLength())
//
// # Security level
//
// The security level is computed from the proof's public parameters alone.
// The conjectured bound assumes the commonly conjectured list-decoding
// behaviour of Reed-Solomon codes; the proven bound follows the
// list-decoding soundness analysis of FRI and searches over the proximity
// parameter m.
//
//	bits, err := vybiumstarkproof.SecurityLevel(proof, false, "sha3")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The estimator can also be queried directly, without a proof:
//
//	options, _ := vybiumstarkproof.NewProofOptions(80, 4, 20, vybiumstarkproof.FieldExtensionCubic, 8, 127)
//	bits, err := vybiumstarkproof.ProvenSecurity(options, 64, 1<<18, 128)
//
// # Numeric backends
//
// The proven bound is a chain of log2, sqrt, pow and ceil evaluations. Two
// interchangeable backends are provided: "host", which uses the Go math
// package, and "portable", a self-contained implementation. Both produce
// identical security levels.
//
//	est, err := vybiumstarkproof.NewEstimator("portable")
//
// # Errors
//
// Every error returned by this package is a *ProofError whose Code
// identifies the failure class; use errors.Is with one of the sentinel
// errors (ErrDecodingFailed, ErrProofInvalid, ...) to test for it.
package vybiumstarkproof
