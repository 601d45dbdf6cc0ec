package intake

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SellerFileMaxBytes: 1 << 20,
		ResumeMaxBytes:     5 << 20,
		DefaultAddress:     "Dubai",
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewBuiltinRegistry(testConfig())
	require.NoError(t, err)
	return reg
}

func sellerForm(t *testing.T) *Form {
	f, ok := testRegistry(t).Get(FormSellerListing)
	require.True(t, ok)
	return f
}

func upload(name, contentType string, size int) Upload {
	data := bytes.Repeat([]byte{0xAB}, size)
	return Upload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(size),
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func TestRegistry_RejectsInvalidForms(t *testing.T) {
	cases := map[string]*Form{
		"no steps": {Name: "x"},
		"duplicate field": {Name: "x", Steps: []Step{
			{Title: "a", Fields: []Field{{Name: "f", Kind: KindText}}},
			{Title: "b", Fields: []Field{{Name: "f", Kind: KindText}}},
		}},
		"file without cap": {Name: "x", Steps: []Step{{Title: "a", Fields: []Field{{Name: "f", Kind: KindFile}}}}},
		"unknown default": {Name: "x", Steps: []Step{{Title: "a", Fields: []Field{{Name: "f", Kind: KindText}}}}, Defaults: map[string]any{"g": 1}},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRegistry(f)
			assert.Error(t, err)
		})
	}
}

func TestBuiltinForms(t *testing.T) {
	reg := testRegistry(t)
	assert.Len(t, reg.List(), 5)

	seller, _ := reg.Get(FormSellerListing)
	assert.Equal(t, 4, seller.StepCount())
	photos, ok := seller.Field("photos")
	require.True(t, ok)
	assert.Equal(t, int64(1<<20), photos.MaxBytes)

	careers, _ := reg.Get(FormCareers)
	resume, _ := careers.Field("resume")
	assert.Equal(t, int64(5<<20), resume.MaxBytes)
}

func TestDraft_StepStaysInRange(t *testing.T) {
	f := sellerForm(t)
	d := NewDraft(f, nil)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 {
			d.Next()
		} else {
			d.Previous()
		}
		require.GreaterOrEqual(t, d.CurrentStep, 1)
		require.LessOrEqual(t, d.CurrentStep, f.StepCount())
	}

	for i := 0; i < 10; i++ {
		d.Previous()
	}
	assert.Equal(t, 1, d.CurrentStep)
	for i := 0; i < 10; i++ {
		d.Next()
	}
	assert.Equal(t, f.StepCount(), d.CurrentStep)
}

func TestDraft_NextIgnoresMissingRequiredFields(t *testing.T) {
	d := NewDraft(sellerForm(t), nil)
	assert.Equal(t, 2, d.Next())
	assert.NotEmpty(t, d.Problems())
}

func TestDraft_SetValues(t *testing.T) {
	d := NewDraft(sellerForm(t), nil)
	assert.Equal(t, "Dubai", d.Values["city"])

	err := d.SetValues(map[string]any{"title": "Marina view", "bogus": 1, "photos": "x"})
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Contains(t, apiErr.Details, "bogus")
	assert.Contains(t, apiErr.Details, "photos")
	assert.NotContains(t, d.Values, "title", "nothing is applied when any name is rejected")

	require.NoError(t, d.SetValues(map[string]any{"title": "Marina view", "city": nil}))
	assert.Equal(t, "Marina view", d.Values["title"])
	assert.NotContains(t, d.Values, "city")
}

func TestDraft_AttachRejectsOversizedAndKeepsOrder(t *testing.T) {
	d := NewDraft(sellerForm(t), nil)

	accepted, rejected, err := d.Attach("photos",
		upload("a.jpg", "image/jpeg", 512<<10),
		upload("big.jpg", "image/jpeg", 2<<20),
		upload("b.jpg", "image/jpeg", 512<<10),
		upload("notes.txt", "text/plain", 10),
	)
	require.NoError(t, err)
	assert.Len(t, accepted, 2)
	require.Len(t, rejected, 2)
	assert.Equal(t, "big.jpg", rejected[0].Filename)
	assert.Contains(t, rejected[0].Reason, "1 MB")
	assert.Equal(t, "notes.txt", rejected[1].Filename)

	files := d.Attachments["photos"]
	require.Len(t, files, 2)
	assert.Equal(t, "a.jpg", files[0].Filename)
	assert.Equal(t, "b.jpg", files[1].Filename)
}

func TestDraft_AttachChecksActualBytes(t *testing.T) {
	d := NewDraft(sellerForm(t), nil)

	lying := upload("liar.jpg", "image/jpeg", (1<<20)+1)
	lying.Size = 10
	_, rejected, err := d.Attach("photos", lying)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)
	assert.Empty(t, d.Attachments["photos"])
}

func TestDraft_AttachAtExactCapIsAccepted(t *testing.T) {
	d := NewDraft(sellerForm(t), nil)
	accepted, rejected, err := d.Attach("photos", upload("edge.jpg", "image/jpeg", 1<<20))
	require.NoError(t, err)
	assert.Len(t, accepted, 1)
	assert.Empty(t, rejected)
}

func TestDraft_SingleFileFieldKeepsLatest(t *testing.T) {
	careers, _ := testRegistry(t).Get(FormCareers)
	d := NewDraft(careers, nil)

	_, _, err := d.Attach("resume", upload("v1.pdf", "application/pdf", 100))
	require.NoError(t, err)
	_, rejected, err := d.Attach("resume", upload("huge.pdf", "application/pdf", 6<<20))
	require.NoError(t, err)
	assert.Len(t, rejected, 1)
	_, _, err = d.Attach("resume", upload("v2.pdf", "application/pdf", 100))
	require.NoError(t, err)

	require.Len(t, d.Attachments["resume"], 1)
	assert.Equal(t, "v2.pdf", d.Attachments["resume"][0].Filename)
}

func TestDraft_AttachUnknownField(t *testing.T) {
	d := NewDraft(sellerForm(t), nil)
	_, _, err := d.Attach("title", upload("a.jpg", "image/jpeg", 1))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDraft_RemoveAttachment(t *testing.T) {
	d := NewDraft(sellerForm(t), nil)
	_, _, err := d.Attach("photos", upload("a.jpg", "image/jpeg", 1), upload("b.jpg", "image/jpeg", 1), upload("c.jpg", "image/jpeg", 1))
	require.NoError(t, err)

	require.NoError(t, d.RemoveAttachment("photos", 1))
	files := d.Attachments["photos"]
	require.Len(t, files, 2)
	assert.Equal(t, "a.jpg", files[0].Filename)
	assert.Equal(t, "c.jpg", files[1].Filename)

	assert.ErrorIs(t, d.RemoveAttachment("photos", 5), common.ErrNotFound)
}

func TestDraft_ProblemsCoverAllSteps(t *testing.T) {
	d := NewDraft(sellerForm(t), nil)
	require.NoError(t, d.SetValues(map[string]any{
		"title":         "Marina view",
		"price":         "abc",
		"contact_email": "not-an-email",
		"category":      "industrial",
	}))

	problems := d.Problems()
	assert.Contains(t, problems["price"], "number")
	assert.Contains(t, problems["contact_email"], "email")
	assert.Contains(t, problems["category"], "one of")
	assert.Contains(t, problems, "area")
	assert.Contains(t, problems, "contact_phone")
	assert.NotContains(t, problems, "title")
	assert.NotContains(t, problems, "photos")
}

func TestValues_Accessors(t *testing.T) {
	v := Values{"price": "2,500,000", "beds": float64(3), "ok": "on", "amenities": "pool, gym,\nparking", "list": []any{"a", " b "}}

	price, ok := v.Float("price")
	require.True(t, ok)
	assert.Equal(t, 2500000.0, price)
	beds, _ := v.Int("beds")
	assert.Equal(t, 3, beds)
	assert.True(t, v.Bool("ok"))
	assert.False(t, v.Bool("missing"))
	assert.Equal(t, []string{"pool", "gym", "parking"}, v.List("amenities"))
	assert.Equal(t, []string{"a", "b"}, v.List("list"))
	assert.Equal(t, "3", v.String("beds"))
}
