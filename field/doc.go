// Package field implements the prime fields used by the secret-sharing and proof
// layers: GF(p) for a 32-, 64-, 80- and 126-bit prime.
//
// Every field is the same generic type Elem[D] instantiated with a zero-size
// descriptor (P32, P64, P80, P126) that selects a parameter table from
// internal/fp. The aliases Field32 ... Field126 name the instantiations.
//
// Elements keep an internal Montgomery representation. Equality, ordering,
// printing and serialization all go through the canonical integer in [0, p).
//
// The encoding of an element is exactly Bytes little-endian bytes of its
// canonical value (4, 8, 10 and 16 bytes respectively), with no padding and no
// length prefix.
//
// Division by zero and the inverse of zero are not errors; their value is
// unspecified and must not be relied upon.
package field
