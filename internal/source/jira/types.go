package jira

import "encoding/json"

// SearchRequest is the body of POST /rest/api/2/search.
type SearchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

// SearchResponse is the response from POST /rest/api/2/search.
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue represents a single Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of a Jira issue the fixture engine
// reads. Custom fields such as the rank are kept in Raw and looked up by
// their configured id.
type IssueFields struct {
	Summary   string     `json:"summary"`
	Status    Status     `json:"status"`
	IssueType IssueType  `json:"issuetype"`
	Parent    *IssueLink `json:"parent,omitempty"`
	Labels    []string   `json:"labels"`

	Raw map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps every field raw.
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	type known IssueFields
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = IssueFields(k)
	f.Raw = raw
	return nil
}

// StringField returns a custom field holding a plain string, or "" when
// the field is absent, null or of another shape.
func (f IssueFields) StringField(id string) string {
	raw, ok := f.Raw[id]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// LinkField returns the issue key referenced by a field such as parent
// or an epic link. Both an issue object and a bare key are accepted.
func (f IssueFields) LinkField(id string) string {
	raw, ok := f.Raw[id]
	if !ok {
		return ""
	}
	var link IssueLink
	if json.Unmarshal(raw, &link) == nil && link.Key != "" {
		return link.Key
	}
	var key string
	if json.Unmarshal(raw, &key) == nil {
		return key
	}
	return ""
}

// IssueLink is a reference to another issue.
type IssueLink struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Status represents the status of a Jira issue.
type Status struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// IssueType represents the type of a Jira issue (Epic, Story, etc.).
type IssueType struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Subtask bool   `json:"subtask"`
}

// Transition represents a possible status transition for a Jira issue.
type Transition struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	To   TransitionTo `json:"to"`
}

// TransitionTo describes the target status of a transition.
type TransitionTo struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// TransitionsResponse wraps the list of transitions returned by the API.
type TransitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

// TransitionRequest is the body of POST /rest/api/2/issue/{key}/transitions.
type TransitionRequest struct {
	Transition TransitionID `json:"transition"`
}

// TransitionID identifies the transition to perform.
type TransitionID struct {
	ID string `json:"id"`
}

// LabelsUpdate is the body of PUT /rest/api/2/issue/{key} that replaces
// the label set.
type LabelsUpdate struct {
	Fields struct {
		Labels []string `json:"labels"`
	} `json:"fields"`
}

// Myself is the response from GET /rest/api/2/myself.
type Myself struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
