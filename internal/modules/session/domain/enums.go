//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// State represents the session lifecycle:
// unauthenticated -> awaiting_code -> awaiting_password -> authenticated
// -> (disconnected | terminated)
// ENUM(unauthenticated,awaiting_code,awaiting_password,authenticated,disconnected,terminated)
type State string

// SecretKind identifies which login secret the state machine is waiting for
// ENUM(code,password)
type SecretKind string
