package repositories

import (
	"testing"
	"time"

	"chat-hub/errors"

	"github.com/stretchr/testify/require"
)

func Test_RequiredRole_ReadAndMiss(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewRoomRepository(db)
	req.NoError(repository.UpsertRoom(Room{
		ID: "r1", Name: "war-room", Kind: "text", RequiredRole: "beta",
		CreatedAt: time.Now().UTC(),
	}))

	role, err := repository.RequiredRole("r1")
	req.NoError(err)
	req.NotNil(role)
	req.Equal("beta", *role)

	// Unknown rooms yield nil, not an error
	role, err = repository.RequiredRole("ghost")
	req.NoError(err)
	req.Nil(role)
}

func Test_ListRoomIDs_FiltersByRole(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewRoomRepository(db)
	rooms := []Room{
		{ID: "r1", Name: "beta-lounge", Kind: "text", RequiredRole: "beta"},
		{ID: "r2", Name: "general", Kind: "text", RequiredRole: "user"},
		{ID: "r3", Name: "staff", Kind: "voice", RequiredRole: "admin"},
	}
	for _, room := range rooms {
		req.NoError(repository.UpsertRoom(room))
	}

	betaRooms, err := repository.ListRoomIDs("beta")
	req.NoError(err)
	req.Len(betaRooms, 2)
	req.True(betaRooms.Contains("r1"))
	req.True(betaRooms.Contains("r2"))

	adminRooms, err := repository.ListRoomIDs("admin")
	req.NoError(err)
	req.Len(adminRooms, 3)

	userRooms, err := repository.ListRoomIDs("user")
	req.NoError(err)
	req.Len(userRooms, 1)
	req.True(userRooms.Contains("r2"))
}

func Test_RemoveRoom(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewRoomRepository(db)
	req.NoError(repository.UpsertRoom(Room{ID: "r1", Name: "doomed", Kind: "text", RequiredRole: "user"}))
	req.NoError(repository.RemoveRoom("r1"))

	role, err := repository.RequiredRole("r1")
	req.NoError(err)
	req.Nil(role)
}

func Test_UserRole_ReadAndMiss(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewUserRepository(db)
	req.NoError(repository.UpsertUser(User{ID: "u1", Username: "alice", Role: "beta", AvatarColor: 3}))

	role, err := repository.Role("u1")
	req.NoError(err)
	req.NotNil(role)
	req.Equal("beta", *role)

	role, err = repository.Role("ghost")
	req.NoError(err)
	req.Nil(role)
}

func Test_ListRooms_ReturnsFullRecords(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewRoomRepository(db)
	req.NoError(repository.UpsertRoom(Room{ID: "r1", Name: "beta-lounge", Kind: "text", RequiredRole: "beta"}))
	req.NoError(repository.UpsertRoom(Room{ID: "r2", Name: "staff", Kind: "voice", RequiredRole: "admin"}))

	rooms, err := repository.ListRooms("beta")
	req.NoError(err)
	req.Len(rooms, 1)
	req.Equal("beta-lounge", rooms[0].Name)
	req.Equal("text", rooms[0].Kind)

	rooms, err = repository.ListRooms("admin")
	req.NoError(err)
	req.Len(rooms, 2)
}

func Test_AssignRole(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewUserRepository(db)
	req.NoError(repository.UpsertUser(User{ID: "u1", Username: "alice", Role: "user", AvatarColor: 3}))

	req.NoError(repository.AssignRole("u1", "beta"))

	role, err := repository.Role("u1")
	req.NoError(err)
	req.Equal("beta", *role)

	req.ErrorIs(repository.AssignRole("ghost", "beta"), errors.ErrUnknownUser)
}
