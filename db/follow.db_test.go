package db

import (
	"context"
	stdErrors "errors"
	"testing"

	"LINKUP_server/errors"
	"LINKUP_server/schemas"
)

func TestToggleFollowPublicTarget(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	a := createTestUser(t, database, "a", false)
	b := createTestUser(t, database, "b", false)

	change, err := database.ToggleFollow(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("ToggleFollow: %v", err)
	}
	if !change.Following || change.Status != schemas.FollowAccepted {
		t.Errorf("expected immediate ACCEPTED follow, got %+v", change)
	}
	if change.Notification == nil || change.Notification.Type != schemas.NotifFollow {
		t.Errorf("expected FOLLOW notification, got %+v", change.Notification)
	}
	if change.Notification.UserID != b.ID {
		t.Errorf("notification recipient = %s, want %s", change.Notification.UserID, b.ID)
	}

	if followers, _ := counters(t, database, b.ID); followers != 1 {
		t.Errorf("target followers = %d, want 1", followers)
	}
	if _, following := counters(t, database, a.ID); following != 1 {
		t.Errorf("follower following = %d, want 1", following)
	}
}

func TestToggleFollowTwiceRestoresState(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	a := createTestUser(t, database, "a", false)
	b := createTestUser(t, database, "b", false)

	if _, err := database.ToggleFollow(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	change, err := database.ToggleFollow(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if change.Following {
		t.Error("second toggle should have removed the edge")
	}

	if status, _ := database.EdgeStatus(ctx, a.ID, b.ID); status != "" {
		t.Errorf("edge still present with status %q", status)
	}
	if followers, following := counters(t, database, b.ID); followers != 0 || following != 0 {
		t.Errorf("target counters = (%d,%d), want (0,0)", followers, following)
	}
	if followers, following := counters(t, database, a.ID); followers != 0 || following != 0 {
		t.Errorf("follower counters = (%d,%d), want (0,0)", followers, following)
	}
}

func TestToggleFollowSelf(t *testing.T) {
	database := newTestDB(t)
	a := createTestUser(t, database, "a", false)

	_, err := database.ToggleFollow(context.Background(), a.ID, a.ID)
	if err == nil || !errors.IsApp(err) {
		t.Fatalf("expected validation error for self follow, got %v", err)
	}
}

func TestToggleFollowMissingUsers(t *testing.T) {
	database := newTestDB(t)
	a := createTestUser(t, database, "a", false)

	if _, err := database.ToggleFollow(context.Background(), a.ID, "ghost"); err == nil {
		t.Error("expected not found for missing target")
	}
	if _, err := database.ToggleFollow(context.Background(), "ghost", a.ID); err == nil {
		t.Error("expected not found for missing user")
	}
}

func TestPrivateFollowFlow(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	c := createTestUser(t, database, "c", true)
	d := createTestUser(t, database, "d", false)

	change, err := database.ToggleFollow(ctx, d.ID, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if change.Status != schemas.FollowPending {
		t.Fatalf("edge status = %s, want PENDING", change.Status)
	}
	if change.Notification.Type != schemas.NotifFollowRequest {
		t.Errorf("notification type = %s, want FOLLOW_REQUEST", change.Notification.Type)
	}
	if followers, _ := counters(t, database, c.ID); followers != 0 {
		t.Errorf("pending request must not move counters, followers = %d", followers)
	}

	requests, err := database.ListRequests(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(requests) != 1 || requests[0].ID != d.ID {
		t.Fatalf("requests = %+v, want [d]", requests)
	}

	notif, err := database.AcceptRequest(ctx, c.ID, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if notif.Type != schemas.NotifRequestAccepted || notif.UserID != d.ID {
		t.Errorf("accept notification = %+v", notif)
	}
	if status, _ := database.EdgeStatus(ctx, d.ID, c.ID); status != schemas.FollowAccepted {
		t.Errorf("edge status = %s, want ACCEPTED", status)
	}
	if followers, _ := counters(t, database, c.ID); followers != 1 {
		t.Errorf("target followers = %d, want 1", followers)
	}
	if _, following := counters(t, database, d.ID); following != 1 {
		t.Errorf("follower following = %d, want 1", following)
	}
}

func TestAcceptRequestExactlyOnce(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	c := createTestUser(t, database, "c", true)
	d := createTestUser(t, database, "d", false)

	if _, err := database.ToggleFollow(ctx, d.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := database.AcceptRequest(ctx, c.ID, d.ID); err != nil {
		t.Fatal(err)
	}

	_, err := database.AcceptRequest(ctx, c.ID, d.ID)
	var appErr *errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Status != 409 {
		t.Fatalf("second accept should fail with invalid state, got %v", err)
	}

	if followers, _ := counters(t, database, c.ID); followers != 1 {
		t.Errorf("double accept moved counters, followers = %d", followers)
	}
}

func TestRejectRequest(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	c := createTestUser(t, database, "c", true)
	d := createTestUser(t, database, "d", false)

	if _, err := database.ToggleFollow(ctx, d.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	notif, err := database.RejectRequest(ctx, c.ID, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if notif.Type != schemas.NotifRequestRejected {
		t.Errorf("notification type = %s, want REQUEST_REJECTED", notif.Type)
	}
	if status, _ := database.EdgeStatus(ctx, d.ID, c.ID); status != schemas.FollowRejected {
		t.Errorf("edge status = %s, want REJECTED", status)
	}
	if followers, _ := counters(t, database, c.ID); followers != 0 {
		t.Errorf("reject moved counters, followers = %d", followers)
	}

	// resolving a rejected request again is invalid
	if _, err = database.AcceptRequest(ctx, c.ID, d.ID); err == nil {
		t.Error("accept after reject should fail")
	}
}

func TestUnfollowPendingEdgeKeepsCounters(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	c := createTestUser(t, database, "c", true)
	d := createTestUser(t, database, "d", false)

	if _, err := database.ToggleFollow(ctx, d.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	// cancel the pending request; it was never counted, so counters
	// must not move
	if _, err := database.ToggleFollow(ctx, d.ID, c.ID); err != nil {
		t.Fatal(err)
	}

	if followers, _ := counters(t, database, c.ID); followers != 0 {
		t.Errorf("followers = %d, want 0", followers)
	}
	if _, following := counters(t, database, d.ID); following != 0 {
		t.Errorf("following = %d, want 0", following)
	}
}

func TestMutualFollowers(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	a := createTestUser(t, database, "a", false)
	b := createTestUser(t, database, "b", false)
	m := createTestUser(t, database, "m", false)
	n := createTestUser(t, database, "n", false)

	// a follows m and n; m and n follow b; n also follows a (noise)
	for _, pair := range [][2]string{{a.ID, m.ID}, {a.ID, n.ID}, {m.ID, b.ID}, {n.ID, b.ID}, {n.ID, a.ID}} {
		if _, err := database.ToggleFollow(ctx, pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	mutual, err := database.MutualFollowers(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mutual) != 2 {
		t.Fatalf("mutual = %+v, want m and n", mutual)
	}
	got := map[string]bool{}
	for _, s := range mutual {
		got[s.ID] = true
	}
	if !got[m.ID] || !got[n.ID] {
		t.Errorf("mutual = %+v, want m and n", mutual)
	}
}

func TestSuggestedUsers(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	a := createTestUser(t, database, "a", false)
	b := createTestUser(t, database, "b", false)
	fof := createTestUser(t, database, "fof", false)
	stranger := createTestUser(t, database, "stranger", false)

	// a -> b -> fof makes fof a friend-of-friend of a
	if _, err := database.ToggleFollow(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := database.ToggleFollow(ctx, b.ID, fof.ID); err != nil {
		t.Fatal(err)
	}

	suggestions, err := database.SuggestedUsers(ctx, a.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) == 0 || suggestions[0].ID != fof.ID {
		t.Fatalf("suggestions = %+v, want fof ranked first", suggestions)
	}
	ids := map[string]int{}
	for _, s := range suggestions {
		ids[s.ID]++
		if s.ID == a.ID {
			t.Error("suggested self")
		}
		if s.ID == b.ID {
			t.Error("suggested an already followed user")
		}
	}
	if ids[stranger.ID] != 1 {
		t.Errorf("fallback should include stranger once, got %+v", suggestions)
	}

	// deterministic for a fixed snapshot
	again, err := database.SuggestedUsers(ctx, a.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(suggestions) {
		t.Fatalf("suggestion order changed: %+v vs %+v", suggestions, again)
	}
	for i := range again {
		if again[i].ID != suggestions[i].ID {
			t.Fatalf("suggestion order changed at %d: %+v vs %+v", i, suggestions, again)
		}
	}
}

func TestFollowersPrivacy(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	priv := createTestUser(t, database, "priv", true)
	follower := createTestUser(t, database, "follower", false)
	outsider := createTestUser(t, database, "outsider", false)

	if _, err := database.ToggleFollow(ctx, follower.ID, priv.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := database.AcceptRequest(ctx, priv.ID, follower.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := database.Followers(ctx, outsider.ID, priv.ID); err == nil {
		t.Error("outsider should be forbidden from a private user's followers")
	}

	followers, err := database.Followers(ctx, follower.ID, priv.ID)
	if err != nil {
		t.Fatalf("accepted follower should see followers: %v", err)
	}
	if len(followers) != 1 || followers[0].ID != follower.ID {
		t.Errorf("followers = %+v", followers)
	}

	own, err := database.Followers(ctx, priv.ID, priv.ID)
	if err != nil || len(own) != 1 {
		t.Errorf("owner listing own followers: %v, %+v", err, own)
	}
}

func TestRemoveFollower(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	a := createTestUser(t, database, "a", false)
	b := createTestUser(t, database, "b", false)

	if _, err := database.ToggleFollow(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if err := database.RemoveFollower(ctx, b.ID, a.ID); err != nil {
		t.Fatal(err)
	}

	if status, _ := database.EdgeStatus(ctx, a.ID, b.ID); status != "" {
		t.Errorf("edge still present: %s", status)
	}
	if followers, _ := counters(t, database, b.ID); followers != 0 {
		t.Errorf("followers = %d, want 0", followers)
	}
	if _, following := counters(t, database, a.ID); following != 0 {
		t.Errorf("following = %d, want 0", following)
	}

	// removing again is a client error, not a crash
	if err := database.RemoveFollower(ctx, b.ID, a.ID); err == nil {
		t.Error("expected error removing a non-follower")
	}
}

func TestCloseFriends(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	a := createTestUser(t, database, "a", false)
	b := createTestUser(t, database, "b", false)

	// must follow first
	if _, err := database.ToggleCloseFriend(ctx, a.ID, b.ID); err == nil {
		t.Error("close friend without following should fail")
	}

	if _, err := database.ToggleFollow(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	added, err := database.ToggleCloseFriend(ctx, a.ID, b.ID)
	if err != nil || !added {
		t.Fatalf("toggle close friend: added=%v err=%v", added, err)
	}
	friends, err := database.CloseFriends(ctx, a.ID)
	if err != nil || len(friends) != 1 || friends[0].ID != b.ID {
		t.Fatalf("close friends = %+v, err=%v", friends, err)
	}

	added, err = database.ToggleCloseFriend(ctx, a.ID, b.ID)
	if err != nil || added {
		t.Fatalf("second toggle should remove: added=%v err=%v", added, err)
	}
}

func TestCounterDecrementFloorsAtZero(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	a := createTestUser(t, database, "a", false)
	b := createTestUser(t, database, "b", false)

	if _, err := database.ToggleFollow(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	// drift the counters to zero underneath the accepted edge
	if _, err := database.conn.ExecContext(ctx, `
		UPDATE users SET followers_count = 0, following_count = 0;`); err != nil {
		t.Fatal(err)
	}

	if _, err := database.ToggleFollow(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	if followers, _ := counters(t, database, b.ID); followers != 0 {
		t.Errorf("followers_count = %d, want 0 (must never go negative)", followers)
	}
	if _, following := counters(t, database, a.ID); following != 0 {
		t.Errorf("following_count = %d, want 0 (must never go negative)", following)
	}
}
