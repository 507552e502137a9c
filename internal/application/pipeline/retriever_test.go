package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrwiki/backend/internal/domain/hr"
)

func newTestRetriever(t *testing.T, employees *fakeEmployeeRepo, documents *fakeDocumentRepo) *Retriever {
	t.Helper()
	return NewRetriever(employees, documents, testManager(t))
}

func testEmployee(id int) *hr.Employee {
	return &hr.Employee{
		EmployeeID:     id,
		Name:           fmt.Sprintf("Employee %d", id),
		Position:       "Software Developer",
		ContractType:   "Full-Time",
		JoinDate:       "2021-04-12",
		Salary:         95000,
		VisaType:       "H-1B",
		VisaExpiration: "2026-03-01",
	}
}

func TestRetrieve_EmployeeByID(t *testing.T) {
	employees := newFakeEmployeeRepo(testEmployee(1503))
	r := newTestRetriever(t, employees, newFakeDocumentRepo())

	c := hr.Classification{Topics: []hr.Topic{hr.TopicEmployee}, EmployeeID: 1503}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	require.Len(t, result.Fragments, 1)
	frag := result.Fragments[0]
	assert.Equal(t, hr.CategoryEmployee, frag.Category)
	assert.Contains(t, frag.Text, "EMPLOYEE 1503")
	assert.Contains(t, frag.Text, "Annual Salary: $95000.00")
	assert.Contains(t, frag.Text, "Visa Expiration: 2026-03-01")
	require.NotNil(t, frag.Employee)
	assert.Equal(t, []string{collectionEmployees}, result.Metadata.Collections)
}

func TestRetrieve_EmployeeNotFound(t *testing.T) {
	r := newTestRetriever(t, newFakeEmployeeRepo(), newFakeDocumentRepo())

	c := hr.Classification{Topics: []hr.Topic{hr.TopicEmployee}, EmployeeID: 9999}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	require.Len(t, result.Fragments, 1)
	assert.Equal(t, "No employee record found for employee ID 9999.", result.Fragments[0].Text)
	assert.Nil(t, result.Fragments[0].Employee)
}

func TestRetrieve_TerminatedEmployeeAddsTerminationFragment(t *testing.T) {
	e := testEmployee(1488)
	e.Terminated = true
	e.TerminationDate = "2024-11-30"
	r := newTestRetriever(t, newFakeEmployeeRepo(e), newFakeDocumentRepo())

	c := hr.Classification{Topics: []hr.Topic{hr.TopicEmployee}, EmployeeID: 1488}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	require.Len(t, result.Fragments, 2)
	assert.Equal(t, hr.CategoryTermination, result.Fragments[1].Category)
	assert.Contains(t, result.Fragments[1].Text, "2024-11-30")
}

func TestRetrieve_VisaListing(t *testing.T) {
	e1 := testEmployee(1501)
	e2 := testEmployee(1502)
	e3 := testEmployee(1503)
	e3.VisaType = "OPT"
	r := newTestRetriever(t, newFakeEmployeeRepo(e1, e2, e3), newFakeDocumentRepo())

	c := hr.Classification{Topics: []hr.Topic{hr.TopicVisa}, VisaType: "H-1B"}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	// 头部片段 + 两条员工条目
	require.Len(t, result.Fragments, 3)
	assert.Contains(t, result.Fragments[0].Text, "TOTAL COUNT: 2 employees")
	assert.Contains(t, result.Fragments[1].Text, "Employee 1501")
	assert.Contains(t, result.Fragments[2].Text, "Employee 1502")
}

func TestRetrieve_BenefitsDocumentsInOrder(t *testing.T) {
	docs := newFakeDocumentRepo(
		&hr.Document{CategoryKey: hr.DocDentalBenefits, Content: "dental details"},
		&hr.Document{CategoryKey: hr.DocMedicalPlans, Content: "medical details"},
	)
	r := newTestRetriever(t, newFakeEmployeeRepo(), docs)

	c := hr.Classification{Topics: []hr.Topic{hr.TopicBenefits}}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	// vision 文档缺失时跳过，顺序固定为 medical -> dental
	require.Len(t, result.Fragments, 2)
	assert.Contains(t, result.Fragments[0].Text, "MEDICAL")
	assert.Contains(t, result.Fragments[1].Text, "DENTAL")
	assert.Equal(t, []string{collectionMedical, collectionDental}, result.Metadata.Collections)
}

func TestRetrieve_AggregateByVisa(t *testing.T) {
	e1 := testEmployee(1501)
	e2 := testEmployee(1502)
	e2.VisaType = "Green Card"
	r := newTestRetriever(t, newFakeEmployeeRepo(e1, e2), newFakeDocumentRepo())

	c := hr.Classification{Topics: []hr.Topic{hr.TopicVisa, hr.TopicAggregate}, VisaType: ""}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	// visa 与 aggregate 同现：不输出个体清单，只输出分组统计
	require.Len(t, result.Fragments, 1)
	assert.Equal(t, hr.CategoryAggregate, result.Fragments[0].Category)
	assert.Contains(t, result.Fragments[0].Text, "- Green Card: 1")
	assert.Contains(t, result.Fragments[0].Text, "- H-1B: 1")
}

func TestRetrieve_AggregateByJobRole(t *testing.T) {
	e1 := testEmployee(1501)
	e2 := testEmployee(1502)
	r := newTestRetriever(t, newFakeEmployeeRepo(e1, e2), newFakeDocumentRepo())

	c := hr.Classification{Topics: []hr.Topic{hr.TopicAggregate}, JobRole: "Software Developer"}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	require.NotEmpty(t, result.Fragments)
	assert.Contains(t, result.Fragments[0].Text, "ROLE: SOFTWARE DEVELOPER")
	assert.Contains(t, result.Fragments[0].Text, "TOTAL COUNT: 2 employees")
}

func TestRetrieve_GeneralFallback(t *testing.T) {
	docs := newFakeDocumentRepo()
	docs.questions = []*hr.SuggestedQuestion{
		{Question: "How many employees are on H-1B?"},
		{Question: "What dental plans do we offer?"},
	}
	r := newTestRetriever(t, newFakeEmployeeRepo(), docs)

	c := hr.Classification{Topics: []hr.Topic{hr.TopicGeneral}}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	require.Len(t, result.Fragments, 1)
	assert.Contains(t, result.Fragments[0].Text, "Common questions")
	assert.Contains(t, result.Fragments[0].Text, "How many employees are on H-1B?")
}

func TestRetrieve_BudgetTruncation(t *testing.T) {
	docs := newFakeDocumentRepo(
		&hr.Document{CategoryKey: hr.DocMedicalPlans, Content: strings.Repeat("m", 5000)},
		&hr.Document{CategoryKey: hr.DocDentalBenefits, Content: "dental details"},
	)
	r := newTestRetriever(t, newFakeEmployeeRepo(), docs)

	c := hr.Classification{Topics: []hr.Topic{hr.TopicBenefits}}
	result, err := r.Retrieve(context.Background(), c, nil)

	require.NoError(t, err)
	// 默认预算 3000 字符：首个超长文档被截断，后续片段不再进入
	require.Len(t, result.Fragments, 1)
	assert.Len(t, result.Fragments[0].Text, 3000)
	assert.True(t, result.Metadata.Truncated)
}

func TestRetrieve_TruncationIsDeterministic(t *testing.T) {
	build := func() *hr.RetrievalResult {
		docs := newFakeDocumentRepo(
			&hr.Document{CategoryKey: hr.DocMedicalPlans, Content: strings.Repeat("x", 4000)},
		)
		r := newTestRetriever(t, newFakeEmployeeRepo(), docs)
		result, err := r.Retrieve(context.Background(),
			hr.Classification{Topics: []hr.Topic{hr.TopicBenefits}}, nil)
		require.NoError(t, err)
		return result
	}

	first := build()
	second := build()
	assert.Equal(t, first.Fragments, second.Fragments)
	assert.Equal(t, first.Metadata, second.Metadata)
}

func TestRetrieve_StoreErrorPropagates(t *testing.T) {
	employees := newFakeEmployeeRepo()
	employees.failWith = fmt.Errorf("%w: connection reset", hr.ErrStoreUnavailable)
	r := newTestRetriever(t, employees, newFakeDocumentRepo())

	c := hr.Classification{Topics: []hr.Topic{hr.TopicEmployee}, EmployeeID: 1503}
	_, err := r.Retrieve(context.Background(), c, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, hr.ErrStoreUnavailable)
}
