package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Badger values are protobuf-encoded records:
//
//	message DiskMessage {
//	  bytes id = 1;
//	  int64 room = 2;
//	  string author = 3;
//	  string content = 4;
//	  string lang = 5;
//	  google.protobuf.Timestamp at = 6;
//	}
//
//	message User {
//	  string id = 1;
//	  string login = 2;
//	  string password_hash = 3;
//	  repeated string roles = 4;
//	  google.protobuf.Timestamp created_at = 5;
//	}
const (
	messageID      protowire.Number = 1
	messageRoom    protowire.Number = 2
	messageAuthor  protowire.Number = 3
	messageContent protowire.Number = 4
	messageLang    protowire.Number = 5
	messageAt      protowire.Number = 6

	userID           protowire.Number = 1
	userLogin        protowire.Number = 2
	userPasswordHash protowire.Number = 3
	userRoles        protowire.Number = 4
	userCreatedAt    protowire.Number = 5

	timestampSeconds protowire.Number = 1
	timestampNanos   protowire.Number = 2
)

// MarshalMessage encodes a message for storage.
func MarshalMessage(m DiskMessage) []byte {
	var b []byte
	b = protowire.AppendTag(b, messageID, protowire.BytesType)
	b = protowire.AppendBytes(b, m.ID[:])
	b = appendInt(b, messageRoom, int64(m.Room))
	b = appendString(b, messageAuthor, m.Author)
	b = appendString(b, messageContent, m.Content)
	b = appendString(b, messageLang, m.Lang)
	b = appendTimestamp(b, messageAt, m.At)
	return b
}

// UnmarshalMessage decodes a stored message. Unknown fields are skipped.
func UnmarshalMessage(b []byte) (DiskMessage, error) {
	var m DiskMessage
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == messageID && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			id, err := uuid.FromBytes(v)
			if err != nil {
				return 0, fmt.Errorf("message id: %w", err)
			}
			m.ID = id
			return n, nil
		case num == messageRoom && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.Room = int(int64(v))
			return n, nil
		case num == messageAuthor && typ == protowire.BytesType:
			return consumeString(b, &m.Author), nil
		case num == messageContent && typ == protowire.BytesType:
			return consumeString(b, &m.Content), nil
		case num == messageLang && typ == protowire.BytesType:
			return consumeString(b, &m.Lang), nil
		case num == messageAt && typ == protowire.BytesType:
			return consumeTimestamp(b, &m.At)
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return DiskMessage{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}

// MarshalUser encodes an account for storage.
func MarshalUser(u User) []byte {
	var b []byte
	b = appendString(b, userID, u.ID)
	b = appendString(b, userLogin, u.Login)
	b = appendString(b, userPasswordHash, u.PasswordHash)
	for _, role := range u.Roles {
		b = protowire.AppendTag(b, userRoles, protowire.BytesType)
		b = protowire.AppendString(b, role)
	}
	b = appendTimestamp(b, userCreatedAt, u.CreatedAt)
	return b
}

// UnmarshalUser decodes a stored account. Unknown fields are skipped.
func UnmarshalUser(b []byte) (User, error) {
	var u User
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ == protowire.BytesType {
			switch num {
			case userID:
				return consumeString(b, &u.ID), nil
			case userLogin:
				return consumeString(b, &u.Login), nil
			case userPasswordHash:
				return consumeString(b, &u.PasswordHash), nil
			case userRoles:
				var role string
				n := consumeString(b, &role)
				if n >= 0 {
					u.Roles = append(u.Roles, role)
				}
				return n, nil
			case userCreatedAt:
				return consumeTimestamp(b, &u.CreatedAt)
			}
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// walk calls field for every tag in b. field returns the number of bytes
// consumed after the tag, negative on a malformed value.
func walk(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		n, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendInt(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendTimestamp(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	var ts []byte
	ts = appendInt(ts, timestampSeconds, t.Unix())
	ts = appendInt(ts, timestampNanos, int64(t.Nanosecond()))
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, ts)
}

func consumeString(b []byte, dst *string) int {
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeTimestamp(b []byte, dst *time.Time) (int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	var seconds, nanos int64
	err := walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ == protowire.VarintType && (num == timestampSeconds || num == timestampNanos) {
			x, n := protowire.ConsumeVarint(b)
			if num == timestampSeconds {
				seconds = int64(x)
			} else {
				nanos = int64(x)
			}
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return 0, fmt.Errorf("timestamp: %w", err)
	}
	*dst = time.Unix(seconds, nanos).UTC()
	return n, nil
}
