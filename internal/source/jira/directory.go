package jira

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// searchPageSize is the page size requested from the search endpoint.
const searchPageSize = 100

// Directory implements fixture.Directory over the Jira REST API v2.
type Directory struct {
	client      *Client
	logger      *slog.Logger
	rankField   string
	parentField string
	connected   bool
	user        string
}

// NewDirectory creates a Jira-backed issue directory from cfg.
func NewDirectory(cfg model.JiraConfig, logger *slog.Logger) *Directory {
	client := NewClient(cfg.URL, cfg.Username, cfg.Password, logger)
	return newDirectory(client, cfg.RankField, cfg.ParentField)
}

func newDirectory(client *Client, rankField, parentField string) *Directory {
	if rankField == "" {
		rankField = "customfield_10019"
	}
	if parentField == "" {
		parentField = "parent"
	}
	return &Directory{
		client:      client,
		logger:      client.logger,
		rankField:   rankField,
		parentField: parentField,
	}
}

// User returns the display name of the connected account.
func (d *Directory) User() string { return d.user }

// Connect verifies credentials by calling GET /rest/api/2/myself.
func (d *Directory) Connect(ctx context.Context) error {
	var me Myself
	if err := d.client.Get(ctx, "/rest/api/2/myself", &me); err != nil {
		return fmt.Errorf("validating Jira connection: %w", err)
	}
	d.connected = true
	d.user = me.DisplayName
	d.logger.Debug("connected to jira", "url", d.client.BaseURL(), "user", me.DisplayName)
	return nil
}

// IssuesByLabel returns every issue carrying label, following search
// pagination until all results are read.
func (d *Directory) IssuesByLabel(
	ctx context.Context,
	label string,
) ([]model.FixtureIssue, error) {
	if !d.connected {
		return nil, fixture.ErrNotConnected
	}

	req := SearchRequest{
		JQL:        fmt.Sprintf("labels = %q", label),
		MaxResults: searchPageSize,
		Fields: []string{
			"summary", "status", "issuetype", "labels",
			d.parentField, d.rankField,
		},
	}

	var issues []model.FixtureIssue
	for {
		var resp SearchResponse
		if err := d.client.Post(ctx, "/rest/api/2/search", req, &resp); err != nil {
			return nil, fmt.Errorf("searching issues: %w", err)
		}
		for _, issue := range resp.Issues {
			issues = append(issues, d.toFixtureIssue(issue))
		}

		req.StartAt += len(resp.Issues)
		if len(resp.Issues) == 0 || req.StartAt >= resp.Total {
			break
		}
	}

	if issues == nil {
		issues = []model.FixtureIssue{}
	}
	return issues, nil
}

// TransitionIssue moves the issue through the first transition whose
// name contains the target status in double quotes, matched without
// regard to case. Jira workflows name transitions like
// `Move to "In Progress"`.
func (d *Directory) TransitionIssue(ctx context.Context, key, status string) error {
	if !d.connected {
		return fixture.ErrNotConnected
	}

	path := fmt.Sprintf("/rest/api/2/issue/%s/transitions", url.PathEscape(key))

	var transResp TransitionsResponse
	if err := d.client.Get(ctx, path, &transResp); err != nil {
		return fmt.Errorf("fetching transitions for %s: %w", key, err)
	}

	names := make([]string, 0, len(transResp.Transitions))
	for _, t := range transResp.Transitions {
		names = append(names, t.Name)
	}
	d.logger.Debug("available transitions", "key", key, "transitions", names)

	transition, ok := findTransition(transResp.Transitions, status)
	if !ok {
		return fmt.Errorf("%w: %q on %s (available: %s)",
			fixture.ErrNoTransition, status, key, strings.Join(names, ", "))
	}

	body := TransitionRequest{Transition: TransitionID{ID: transition.ID}}
	// Transition endpoint returns 204 No Content on success.
	if err := d.client.Post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("transitioning %s via %q: %w", key, transition.Name, err)
	}
	return nil
}

func findTransition(transitions []Transition, status string) (Transition, bool) {
	needle := `"` + strings.ToLower(strings.TrimSpace(status)) + `"`
	for _, t := range transitions {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			return t, true
		}
	}
	return Transition{}, false
}

// Labels returns the summary and label set of one issue.
func (d *Directory) Labels(ctx context.Context, key string) (model.IssueLabels, error) {
	if !d.connected {
		return model.IssueLabels{}, fixture.ErrNotConnected
	}

	path := fmt.Sprintf("/rest/api/2/issue/%s?fields=summary,labels", url.PathEscape(key))

	var issue Issue
	if err := d.client.Get(ctx, path, &issue); err != nil {
		return model.IssueLabels{}, fmt.Errorf("fetching issue %s: %w", key, err)
	}

	return model.IssueLabels{
		Key:     issue.Key,
		Summary: issue.Fields.Summary,
		Labels:  issue.Fields.Labels,
	}, nil
}

// SetLabels replaces the label set of one issue.
func (d *Directory) SetLabels(ctx context.Context, key string, labels []string) error {
	if !d.connected {
		return fixture.ErrNotConnected
	}

	var body LabelsUpdate
	body.Fields.Labels = labels
	if body.Fields.Labels == nil {
		body.Fields.Labels = []string{}
	}

	path := fmt.Sprintf("/rest/api/2/issue/%s", url.PathEscape(key))
	if err := d.client.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("updating labels on %s: %w", key, err)
	}
	return nil
}

// toFixtureIssue converts a Jira API issue into the fixture snapshot.
func (d *Directory) toFixtureIssue(issue Issue) model.FixtureIssue {
	parent := issue.Fields.LinkField(d.parentField)
	if parent == "" && issue.Fields.Parent != nil {
		parent = issue.Fields.Parent.Key
	}

	rank := issue.Fields.StringField(d.rankField)
	if rank == "" {
		rank = model.DefaultRank
	}

	return model.FixtureIssue{
		Key:       issue.Key,
		Summary:   issue.Fields.Summary,
		Status:    issue.Fields.Status.Name,
		IssueType: issue.Fields.IssueType.Name,
		ParentKey: parent,
		Rank:      rank,
	}
}

var _ fixture.Directory = (*Directory)(nil)
