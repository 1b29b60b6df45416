package params

const (
	SecParam = 256
	SecBytes = SecParam / 8

	// DigestBytes is the output length of every hash used by the lock.
	DigestBytes = SecBytes // = 32

	BytesScalar = 32
	BytesField  = 32

	// BytesPublicKey is the length of a compressed SEC1 point.
	BytesPublicKey = 1 + BytesField // = 33

	// BytesRS is the length of the r ‖ s part of a compact signature.
	BytesRS = 2 * BytesScalar // = 64

	// BytesSignature is BytesRS followed by the recovery id.
	BytesSignature = BytesRS + 1 // = 65

	// MaxRecoveryID is the largest recovery id for secp256k1.
	// Bit 0 encodes the parity of R.y, bit 1 that R.x overflowed the group order.
	MaxRecoveryID = 3
)
