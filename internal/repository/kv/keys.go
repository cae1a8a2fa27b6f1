package kv

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
)

// Key layout. Every key starts with its record kind and the workspace so a
// prefix scan never crosses workspaces.
//
//	group:<ws>:<channel>                -> GroupChannel
//	groupname:<ws>:<lower(name)>        -> channel id (live channels only)
//	dm:<ws>:<channel>                   -> DMChannel
//	dmpair:<ws>:<low>:<high>            -> channel id
//	member:<ws>:<channel>:<member>      -> ChannelMember
//	membership:<ws>:<member>:<channel>  -> empty
//	user:<ws>:<user>                    -> User
//	username:<ws>:<lower(username)>     -> user id

func groupKey(workspaceID, channelID uuid.UUID) []byte {
	return fmt.Appendf(nil, "group:%s:%s", workspaceID, channelID)
}

func groupNameKey(workspaceID uuid.UUID, name string) []byte {
	return fmt.Appendf(nil, "groupname:%s:%s", workspaceID, strings.ToLower(name))
}

func dmKey(workspaceID, channelID uuid.UUID) []byte {
	return fmt.Appendf(nil, "dm:%s:%s", workspaceID, channelID)
}

func dmPrefix(workspaceID uuid.UUID) []byte {
	return fmt.Appendf(nil, "dm:%s:", workspaceID)
}

func dmPairKey(workspaceID, userA, userB uuid.UUID) []byte {
	low, high := domain.CanonicalPair(userA, userB)
	return fmt.Appendf(nil, "dmpair:%s:%s:%s", workspaceID, low, high)
}

func memberKey(workspaceID, channelID, memberID uuid.UUID) []byte {
	return fmt.Appendf(nil, "member:%s:%s:%s", workspaceID, channelID, memberID)
}

func memberPrefix(workspaceID, channelID uuid.UUID) []byte {
	return fmt.Appendf(nil, "member:%s:%s:", workspaceID, channelID)
}

func membershipKey(workspaceID, memberID, channelID uuid.UUID) []byte {
	return fmt.Appendf(nil, "membership:%s:%s:%s", workspaceID, memberID, channelID)
}

func membershipPrefix(workspaceID, memberID uuid.UUID) []byte {
	return fmt.Appendf(nil, "membership:%s:%s:", workspaceID, memberID)
}

func userKey(workspaceID, userID uuid.UUID) []byte {
	return fmt.Appendf(nil, "user:%s:%s", workspaceID, userID)
}

func usernameKey(workspaceID uuid.UUID, username string) []byte {
	return fmt.Appendf(nil, "username:%s:%s", workspaceID, strings.ToLower(username))
}

// lastID parses the uuid that ends key.
func lastID(key []byte) (uuid.UUID, error) {
	i := strings.LastIndexByte(string(key), ':')
	if i < 0 {
		return uuid.Nil, fmt.Errorf("malformed key %q", key)
	}
	return uuid.ParseBytes(key[i+1:])
}
