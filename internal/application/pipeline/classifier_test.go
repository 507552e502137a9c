package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrwiki/backend/internal/domain/hr"
)

func TestClassify_Topics(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name   string
		query  string
		topics []hr.Topic
	}{
		{
			name:   "visa question",
			query:  "Does the company sponsor H-1B visas?",
			topics: []hr.Topic{hr.TopicVisa},
		},
		{
			name:   "benefits question",
			query:  "What dental coverage do we have?",
			topics: []hr.Topic{hr.TopicBenefits},
		},
		{
			name:   "policy question",
			query:  "How many sick days do I get per year?",
			topics: []hr.Topic{hr.TopicPolicy, hr.TopicAggregate},
		},
		{
			name:   "aggregate question",
			query:  "How many employees do we have on OPT?",
			topics: []hr.Topic{hr.TopicVisa, hr.TopicAggregate},
		},
		{
			name:   "unmatched falls back to general",
			query:  "Tell me a joke",
			topics: []hr.Topic{hr.TopicGeneral},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.query)
			assert.Equal(t, tt.topics, got.Topics)
		})
	}
}

func TestClassify_EmployeeIDForcesEmployeeTopic(t *testing.T) {
	c := NewClassifier()

	// 问句本身是签证主题，出现 ID 后必须附加 employee 标签
	got := c.Classify("What is the visa status of employee 1503?")

	require.Equal(t, 1503, got.EmployeeID)
	assert.True(t, got.HasTopic(hr.TopicEmployee))
	assert.True(t, got.HasTopic(hr.TopicVisa))
	// employee 优先级高于 visa
	assert.Equal(t, hr.TopicEmployee, got.Topics[0])
}

func TestClassify_FirstEmployeeIDWins(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("Compare employee 1501 and employee 1502")
	assert.Equal(t, 1501, got.EmployeeID)
}

func TestClassify_VisaNormalization(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		query string
		want  string
	}{
		{"who is on h1b", "H-1B"},
		{"employees with h-1b extension status", "H-1B Extension"},
		{"anyone holding a green card?", "Green Card"},
		{"students on opt", "OPT"},
		{"opt extension cases", "OPT-Extension"},
		{"no visa mention here", ""},
	}

	for _, tt := range tests {
		got := c.Classify(tt.query)
		assert.Equal(t, tt.want, got.VisaType, "query: %s", tt.query)
	}
}

func TestClassify_VisaWordBoundary(t *testing.T) {
	c := NewClassifier()

	// "option" 不应该命中 OPT
	got := c.Classify("what are my stock option choices")
	assert.Empty(t, got.VisaType)
	assert.False(t, got.HasTopic(hr.TopicVisa))
}

func TestClassify_TimeWindows(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		query string
		want  *hr.TimeWindow
	}{
		{"visas expiring in 6 months", &hr.TimeWindow{StartDays: 0, EndDays: 180}},
		{"who joined in the last 90 days", &hr.TimeWindow{StartDays: -90, EndDays: 0}},
		{"visas expiring soon", &hr.TimeWindow{StartDays: 0, EndDays: 60}},
		{"within 2 years", &hr.TimeWindow{StartDays: 0, EndDays: 730}},
		{"no timeframe here", nil},
	}

	for _, tt := range tests {
		got := c.Classify(tt.query)
		assert.Equal(t, tt.want, got.Window, "query: %s", tt.query)
	}
}

func TestClassify_ThisYearWindow(t *testing.T) {
	c := NewClassifier()
	c.now = func() time.Time {
		return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	}

	got := c.Classify("whose visa expires this year")
	require.NotNil(t, got.Window)
	assert.Negative(t, got.Window.StartDays)
	assert.Positive(t, got.Window.EndDays)
}

func TestClassify_JobRole(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("How many software developers do we have?")
	assert.Equal(t, "Software Developer", got.JobRole)
	assert.True(t, got.HasTopic(hr.TopicAggregate))
}

func TestClassify_NeverEmptyTopics(t *testing.T) {
	c := NewClassifier()

	for _, query := range []string{"", "???", "qwertyuiop", "   "} {
		got := c.Classify(query)
		require.NotEmpty(t, got.Topics, "query: %q", query)
	}
}
