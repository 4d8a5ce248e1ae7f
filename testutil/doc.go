// Package testutil provides test doubles for structrest clients.
//
// MockAdapter replays scripted responses and records requests without any
// network I/O. Server runs a gin engine behind httptest for tests that go
// through a real HTTP adapter. Both implement TestComponent, so tests can
// manage them with automatic cleanup:
//
//	func TestGetUser(t *testing.T) {
//	    mock := testutil.T(t).Adapter()
//	    mock.RespondJSON(200, map[string]any{"id": 1})
//	    client := rest.NewClient(mock)
//	    // ...
//	}
//
// # Thread Safety
//
// MockAdapter and Server are safe for concurrent use, which async clients
// rely on.
package testutil
