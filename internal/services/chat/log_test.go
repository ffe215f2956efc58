package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsarena-go/internal/dependencies/mocks"
	"github.com/mcoot/rpsarena-go/internal/model"
)

type LogSuite struct {
	suite.Suite
	clock *mocks.MockClock
	log   *Log
}

func TestLogSuite(t *testing.T) {
	suite.Run(t, new(LogSuite))
}

func (s *LogSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.log = New(s.clock)
}

func (s *LogSuite) TestIDsAreMonotonicAcrossScopes() {
	m1 := s.log.PostLobby("alice#000", "hello")
	m2 := s.log.PostArena(1, "bob#001", "gl")
	m3 := s.log.PostLobbySystem("announcement")

	s.Equal(uint64(1), m1.ID)
	s.Equal(uint64(2), m2.ID)
	s.Equal(uint64(3), m3.ID)
	s.Equal(model.SystemNick, m3.Nick)
}

func (s *LogSuite) TestLobbySinceFiltersByID() {
	s.log.PostLobby("alice#000", "one")
	s.log.PostLobby("alice#000", "two")
	s.log.PostLobby("alice#000", "three")

	msgs, latest := s.log.LobbySince(1)
	s.Require().Len(msgs, 2)
	s.Equal("two", msgs[0].Text)
	s.Equal("three", msgs[1].Text)
	s.Equal(uint64(3), latest)

	msgs, latest = s.log.LobbySince(3)
	s.Empty(msgs)
	s.Equal(uint64(3), latest)
}

func (s *LogSuite) TestArenaScopesAreIsolated() {
	s.log.PostArena(1, "alice#000", "arena one")
	s.log.PostArena(2, "bob#001", "arena two")

	msgs, _ := s.log.ArenaSince(1, 0)
	s.Require().Len(msgs, 1)
	s.Equal("arena one", msgs[0].Text)

	msgs, _ = s.log.ArenaSince(2, 0)
	s.Require().Len(msgs, 1)
	s.Equal("arena two", msgs[0].Text)
}

func (s *LogSuite) TestDropArena() {
	s.log.PostArena(1, "alice#000", "bye")
	s.log.DropArena(1)

	msgs, _ := s.log.ArenaSince(1, 0)
	s.Empty(msgs)
}

func (s *LogSuite) TestWaitLobbyReturnsImmediatelyWhenBehind() {
	s.log.PostLobby("alice#000", "already here")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	msgs, latest := s.log.WaitLobby(ctx, 0)
	s.Require().Len(msgs, 1)
	s.Equal(uint64(1), latest)
}

func (s *LogSuite) TestWaitLobbyWakesOnPost() {
	type result struct {
		msgs []model.ChatMessage
	}
	done := make(chan result, 1)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		msgs, _ := s.log.WaitLobby(ctx, 0)
		done <- result{msgs}
	}()

	// Give the waiter a moment to park before posting
	time.Sleep(10 * time.Millisecond)
	s.log.PostLobby("alice#000", "wake up")

	select {
	case r := <-done:
		s.Require().Len(r.msgs, 1)
		s.Equal("wake up", r.msgs[0].Text)
	case <-time.After(5 * time.Second):
		s.Fail("waiter did not wake")
	}
}

func (s *LogSuite) TestWaitLobbyReturnsEmptyOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan []model.ChatMessage, 1)
	go func() {
		msgs, _ := s.log.WaitLobby(ctx, 0)
		done <- msgs
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case msgs := <-done:
		s.Empty(msgs)
	case <-time.After(5 * time.Second):
		s.Fail("waiter did not return on cancel")
	}
}
