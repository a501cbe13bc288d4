package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type recordingSender struct {
	mu   sync.Mutex
	reqs []SendRequest
	err  error
}

func (s *recordingSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if _, ok := ctx.Deadline(); !ok {
		return SendResult{}, errors.New("notice sent without a deadline")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	return SendResult{MessageID: "m1"}, s.err
}

func TestNotice_Request(t *testing.T) {
	tests := []struct {
		name        string
		notice      Notice
		wantSubject string
		wantBody    string
	}{
		{
			name:        "signed up",
			notice:      Notice{Kind: NoticeSignedUp, Email: "a@mergington.edu", Activity: "Chess Club", Schedule: "Fridays", Teacher: "mchen"},
			wantSubject: "You are signed up for Chess Club",
			wantBody:    "Schedule: Fridays",
		},
		{
			name:        "unregistered",
			notice:      Notice{Kind: NoticeUnregistered, Email: "a@mergington.edu", Activity: "Chess Club", Teacher: "mchen"},
			wantSubject: "You have been removed from Chess Club",
			wantBody:    "mchen removed you from **Chess Club**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.notice.Request()
			if len(req.To) != 1 || req.To[0] != "a@mergington.edu" {
				t.Errorf("To = %v, want [a@mergington.edu]", req.To)
			}
			if req.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", req.Subject, tt.wantSubject)
			}
			if !strings.Contains(req.Text, tt.wantBody) {
				t.Errorf("Text = %q, want it to contain %q", req.Text, tt.wantBody)
			}
			if !strings.Contains(req.HTML, "<strong>Chess Club</strong>") {
				t.Errorf("HTML = %q, want bold activity name", req.HTML)
			}
		})
	}
}

func TestDispatch_Sends(t *testing.T) {
	s := &recordingSender{}
	<-Dispatch(s, Notice{Kind: NoticeSignedUp, Email: "a@mergington.edu", Activity: "Art Club"})

	if len(s.reqs) != 1 {
		t.Fatalf("sent %d notices, want 1", len(s.reqs))
	}
}

// TestDispatch_FailureIsSwallowed verifies a provider error does not panic or block.
func TestDispatch_FailureIsSwallowed(t *testing.T) {
	s := &recordingSender{err: errors.New("provider down")}
	<-Dispatch(s, Notice{Kind: NoticeUnregistered, Email: "a@mergington.edu", Activity: "Art Club"})
	if len(s.reqs) != 1 {
		t.Fatalf("sent %d notices, want 1", len(s.reqs))
	}
}

func TestDispatch_NilSender(t *testing.T) {
	<-Dispatch(nil, Notice{})
}

func TestNoopSender_Send(t *testing.T) {
	res, err := NewNoopSender().Send(context.Background(), SendRequest{To: []string{"a@mergington.edu"}})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.HasPrefix(res.MessageID, "noop-") {
		t.Errorf("MessageID = %q, want noop- prefix", res.MessageID)
	}
}

func TestResendSender_NoRecipients(t *testing.T) {
	_, err := NewResendSender("re_test", "School <noreply@mergington.edu>").Send(context.Background(), SendRequest{Subject: "x"})
	if !errors.Is(err, ErrNoRecipients) {
		t.Errorf("err = %v, want ErrNoRecipients", err)
	}
}

// TestNotice_Request_EscapesHTML verifies markup in user input is not passed through.
func TestNotice_Request_EscapesHTML(t *testing.T) {
	req := Notice{Kind: NoticeSignedUp, Email: "a@mergington.edu", Activity: "<script>x</script>"}.Request()
	if strings.Contains(req.HTML, "<script>") {
		t.Errorf("HTML = %q, raw script tag leaked", req.HTML)
	}
	if !strings.Contains(req.Text, "A teacher signed you up") {
		t.Errorf("Text = %q, want default teacher wording", req.Text)
	}
}
