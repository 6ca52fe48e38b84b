package params

const (
	SecParam = 128
	SecBytes = SecParam / 8

	// BitsTimeLockModulus is the size of the RSA modulus N used by the time-lock puzzles.
	//
	// Factoring N breaks the sequentiality of the puzzles, so in production this should be
	// at least 2048. We keep the size used by the reference deployment.
	BitsTimeLockModulus  = 4 * SecParam            // = 512
	BitsTimeLockPrime    = BitsTimeLockModulus / 2 // = 256
	BytesTimeLockModulus = BitsTimeLockModulus / 8 // = 64

	// MinBitsTimeLockModulus is the smallest modulus we accept, even for testing.
	MinBitsTimeLockModulus = 64

	// Shares is the default number of shares N in a VTD-Log commitment.
	Shares = 20
	// Threshold is the default number of shares needed to interpolate the secret.
	Threshold = 11
)
