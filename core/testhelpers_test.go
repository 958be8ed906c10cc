package core

func principalFrom(s string) Principal {
	var p Principal
	copy(p[:], []byte(s))
	return p
}

func idFrom(s string) [32]byte {
	var id [32]byte
	copy(id[:], []byte(s))
	return id
}

var (
	alice = principalFrom("alice-principal-0000000000000000")
	bob   = principalFrom("bob-principal-00000000000000000000")
)
