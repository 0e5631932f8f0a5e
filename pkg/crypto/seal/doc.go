// Package seal provides authenticated encryption for values held by the
// in-memory token store.
//
// It wraps ChaCha20-Poly1305 with a process-local random key. Sealing is
// deliberately not durable: the key lives only in process memory, so a
// restart renders every sealed value (and therefore every issued privacy
// token) unresolvable.
package seal
