package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	projectservice "github.com/playpulse/playpulse-backend/internal/projects/service"
	"github.com/playpulse/playpulse-backend/internal/storage/memory"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

var (
	alice = projectdomain.Actor{UserID: "alice", Role: projectdomain.RoleUser}
	bob   = projectdomain.Actor{UserID: "bob", Role: projectdomain.RoleUser}
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	store    *memory.Store
	clock    *clock
	projects *projectservice.ProjectService
	versions *VersionService
	pages    *PageService
	sections *SectionService
	backfill *BackfillService
	public   *PublicService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	c := &clock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	projects := projectservice.NewProjectService(st.Projects(), st.Updates())

	f := &fixture{
		store:    st,
		clock:    c,
		projects: projects,
		versions: NewVersionService(projects, st.Versions(), st.Pages(), st.Updates(), nil),
		pages:    NewPageService(projects, st.Versions(), st.Pages(), nil),
		sections: NewSectionService(projects, st.Versions(), st.Sections(), nil),
		backfill: NewBackfillService(st.Backfill(), nil),
		public:   NewPublicService(projects, st.Versions(), st.Pages(), st.Sections(), nil),
	}
	f.versions.now = c.now
	f.sections.now = c.now
	return f
}

func (f *fixture) project(t *testing.T, owner projectdomain.Actor, name string, vis projectdomain.Visibility) *projectdomain.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), owner, projectdomain.CreateProjectRequest{Name: name, Visibility: vis})
	require.NoError(t, err)
	return p
}

func (f *fixture) version(t *testing.T, owner projectdomain.Actor, projectID, label, title string) *domain.Version {
	t.Helper()
	v, err := f.versions.Create(context.Background(), owner, projectID, domain.CreateVersionRequest{Version: label, Title: title})
	require.NoError(t, err)
	f.clock.advance(time.Minute)
	return v
}

func TestReleaseScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.project(t, alice, "Demo", projectdomain.VisibilityPublic)
	v := f.version(t, alice, p.ID, "1.0", "Launch")
	assert.Equal(t, domain.StateDraft, v.State())
	assert.Nil(t, v.PublishedAt)

	updates, err := f.projects.ListUpdates(ctx, alice, p.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, projectdomain.UpdateVersionRelease, updates[0].Type)
	assert.Equal(t, "Released 1.0", updates[0].Title)
	assert.Equal(t, v.ID, updates[0].Metadata["versionId"])

	published, err := f.versions.Publish(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedAt)

	results, err := f.backfill.Run(ctx, alice)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.BackfillResult{ID: v.ID, Version: "1.0", Slug: "10-launch"}, results[0])

	got, err := f.versions.Get(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "10-launch", got.SlugValue())
}

func TestCreateVersion_PublishedImmediately(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)

	v, err := f.versions.Create(context.Background(), alice, p.ID, domain.CreateVersionRequest{Version: "2.0", Title: "Big", IsPublished: true})
	require.NoError(t, err)
	assert.True(t, v.IsPublished)
	require.NotNil(t, v.PublishedAt)
	assert.Equal(t, f.clock.t, *v.PublishedAt)
}

func TestCreateVersion_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)

	_, err := f.versions.Create(ctx, alice, p.ID, domain.CreateVersionRequest{Version: " "})
	var verr *projectdomain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "version")
	assert.Contains(t, verr.Fields, "title")

	_, err = f.versions.Create(ctx, projectdomain.Actor{}, p.ID, domain.CreateVersionRequest{Version: "1", Title: "x"})
	assert.ErrorIs(t, err, projectdomain.ErrUnauthenticated)

	_, err = f.versions.Create(ctx, bob, p.ID, domain.CreateVersionRequest{Version: "1", Title: "x"})
	assert.ErrorIs(t, err, projectdomain.ErrNotFound)
}

func TestPublishIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	v := f.version(t, alice, p.ID, "1.0", "Launch")

	first, err := f.versions.Publish(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)
	firstAt := *first.PublishedAt

	f.clock.advance(time.Hour)
	second, err := f.versions.Publish(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, second.IsPublished)
	assert.True(t, second.PublishedAt.After(firstAt))

	updates, err := f.projects.ListUpdates(ctx, alice, p.ID)
	require.NoError(t, err)
	assert.Len(t, updates, 1, "publishing appends nothing")
}

type failingLog struct{}

func (failingLog) Append(context.Context, *projectdomain.ProjectUpdate) error {
	return errors.New("db down")
}

func TestCreateVersion_ReleaseLogFailureLeavesVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	f.versions.release = failingLog{}

	_, err := f.versions.Create(ctx, alice, p.ID, domain.CreateVersionRequest{Version: "1.0", Title: "Launch"})
	require.Error(t, err)

	list, err := f.versions.List(ctx, alice, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetPage_DefaultsWhenUnsaved(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	v := f.version(t, alice, p.ID, "1.0", "Launch")

	page, err := f.pages.GetPage(context.Background(), alice, p.ID, v.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":[]}`, string(page.Content))
	assert.JSONEq(t, `{}`, string(page.Settings))
}

func TestSavePage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	v := f.version(t, alice, p.ID, "1.0", "Launch")

	content := json.RawMessage(`{"rows":[{"id":"r","columns":[{"elements":[{"id":"e","type":"text","data":{"text":"hi","z":1,"a":2}}]}]}],"extra":true}`)
	settings := json.RawMessage(`{"theme":"dark","accent":"#fff"}`)

	_, err := f.pages.SavePage(ctx, alice, p.ID, v.ID, content, settings)
	require.NoError(t, err)

	got, err := f.pages.GetPage(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(got.Content))
	assert.Equal(t, string(settings), string(got.Settings))

	// a second save replaces both fields wholesale
	_, err = f.pages.SavePage(ctx, alice, p.ID, v.ID, json.RawMessage(`{"rows":[]}`), nil)
	require.NoError(t, err)
	got, err = f.pages.GetPage(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":[]}`, string(got.Content))
	assert.JSONEq(t, `{}`, string(got.Settings))
}

func TestSavePage_OtherUserCannotWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPublic)
	v := f.version(t, alice, p.ID, "1.0", "Launch")

	original := json.RawMessage(`{"rows":[{"columns":[]}]}`)
	_, err := f.pages.SavePage(ctx, alice, p.ID, v.ID, original, nil)
	require.NoError(t, err)

	_, err = f.pages.SavePage(ctx, bob, p.ID, v.ID, json.RawMessage(`{"rows":[]}`), nil)
	assert.ErrorIs(t, err, projectdomain.ErrNotFound)

	stored, err := f.store.Pages().Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, string(original), string(stored.Content))
}

func TestSavePage_VersionMustBelongToProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p1 := f.project(t, alice, "One", projectdomain.VisibilityPrivate)
	p2 := f.project(t, alice, "Two", projectdomain.VisibilityPrivate)
	v := f.version(t, alice, p1.ID, "1.0", "Launch")

	_, err := f.pages.SavePage(ctx, alice, p2.ID, v.ID, nil, nil)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestSavePage_RejectsMalformedContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	v := f.version(t, alice, p.ID, "1.0", "Launch")

	_, err := f.pages.SavePage(ctx, alice, p.ID, v.ID, json.RawMessage(`{"rows":{}}`), json.RawMessage(`[]`))
	var verr *projectdomain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "content")
	assert.Contains(t, verr.Fields, "settings")

	_, err = f.pages.SavePage(ctx, projectdomain.Actor{}, p.ID, v.ID, nil, nil)
	assert.ErrorIs(t, err, projectdomain.ErrUnauthenticated)
}

func TestBackfill_CollidingBasesGetSuffixes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	a := f.version(t, alice, p.ID, "1.0", "Launch")
	b := f.version(t, alice, p.ID, "1.0", "Launch!")
	c := f.version(t, alice, p.ID, "1.0", "launch")
	other := f.project(t, bob, "Other", projectdomain.VisibilityPrivate)
	f.version(t, bob, other.ID, "1.0", "Launch")

	results, err := f.backfill.Run(ctx, alice)
	require.NoError(t, err)
	require.Len(t, results, 3)

	slugs := map[string]string{}
	for _, r := range results {
		slugs[r.ID] = r.Slug
	}
	assert.Equal(t, "10-launch", slugs[a.ID])
	assert.Equal(t, "10-launch-1", slugs[b.ID])
	assert.Equal(t, "10-launch-2", slugs[c.ID])

	again, err := f.backfill.Run(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, again, "nothing left is success")

	owners, err := f.backfill.Owners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, owners)
}

func TestBackfill_EmptyLabelFallsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	f.version(t, alice, p.ID, "!!", "??")

	results, err := f.backfill.Run(ctx, alice)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.FallbackSlug, results[0].Slug)

	_, err = f.backfill.Run(ctx, projectdomain.Actor{})
	assert.ErrorIs(t, err, projectdomain.ErrUnauthenticated)
}

func TestClaimSlug_RetriesLostRaces(t *testing.T) {
	free := func(string) (bool, error) { return false, nil }

	losses := 2
	var tried []string
	got, err := claimSlug("base", free, func(c string) error {
		tried = append(tried, c)
		if losses > 0 {
			losses--
			return domain.ErrSlugTaken
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "base-2", got)
	assert.Equal(t, []string{"base", "base-1", "base-2"}, tried)

	_, err = claimSlug("base", free, func(string) error { return domain.ErrSlugTaken })
	assert.ErrorIs(t, err, domain.ErrSlugTaken)

	boom := errors.New("boom")
	_, err = claimSlug("base", func(string) (bool, error) { return false, boom }, nil)
	assert.ErrorIs(t, err, boom)
}

func TestUpdateVersion_Slug(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	a := f.version(t, alice, p.ID, "1.0", "Launch")
	b := f.version(t, alice, p.ID, "1.1", "Patch")

	s := "Launch Day"
	got, err := f.versions.Update(ctx, alice, p.ID, a.ID, domain.UpdateVersionRequest{Slug: &s})
	require.NoError(t, err)
	assert.Equal(t, "launch-day", got.SlugValue())

	got, err = f.versions.Update(ctx, alice, p.ID, a.ID, domain.UpdateVersionRequest{Slug: &s})
	require.NoError(t, err)
	assert.Equal(t, "launch-day", got.SlugValue(), "own slug is not a collision")

	got, err = f.versions.Update(ctx, alice, p.ID, b.ID, domain.UpdateVersionRequest{Slug: &s})
	require.NoError(t, err)
	assert.Equal(t, "launch-day-1", got.SlugValue())

	empty := ""
	_, err = f.versions.Update(ctx, alice, p.ID, b.ID, domain.UpdateVersionRequest{Title: &empty})
	var verr *projectdomain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

// racingVersions runs beforeUpdate once, after the caller has read the version and before its
// edit is written.
type racingVersions struct {
	VersionStore
	beforeUpdate func()
}

func (r *racingVersions) Update(ctx context.Context, v *domain.Version) error {
	if r.beforeUpdate != nil {
		hook := r.beforeUpdate
		r.beforeUpdate = nil
		hook()
	}
	return r.VersionStore.Update(ctx, v)
}

func TestUpdateVersion_KeepsConcurrentPublishAndBackfill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	v := f.version(t, alice, p.ID, "1.0", "Launch")

	racing := &racingVersions{VersionStore: f.store.Versions()}
	svc := NewVersionService(f.projects, racing, f.store.Pages(), f.store.Updates(), nil)
	svc.now = f.clock.now

	racing.beforeUpdate = func() {
		_, err := f.versions.Publish(ctx, alice, p.ID, v.ID)
		require.NoError(t, err)
		results, err := f.backfill.Run(ctx, alice)
		require.NoError(t, err)
		require.Len(t, results, 1)
	}

	title := "Launch day"
	got, err := svc.Update(ctx, alice, p.ID, v.ID, domain.UpdateVersionRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Launch day", got.Title)
	assert.True(t, got.IsPublished)
	assert.NotNil(t, got.PublishedAt)
	assert.Equal(t, "10-launch", got.SlugValue())

	stored, err := f.versions.Get(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePublished, stored.State())
	assert.Equal(t, "10-launch", stored.SlugValue())
}

func TestDeleteVersion_CascadesPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	v := f.version(t, alice, p.ID, "1.0", "Launch")
	_, err := f.pages.SavePage(ctx, alice, p.ID, v.ID, nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.versions.Delete(ctx, bob, p.ID, v.ID), projectdomain.ErrNotFound)
	require.NoError(t, f.versions.Delete(ctx, alice, p.ID, v.ID))

	page, err := f.store.Pages().Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.ErrorIs(t, f.versions.Delete(ctx, alice, p.ID, v.ID), domain.ErrVersionNotFound)
}

func TestCards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	old := f.version(t, alice, p.ID, "1.0", "Launch")
	newer := f.version(t, alice, p.ID, "1.1", "Patch")

	_, err := f.pages.SavePage(ctx, alice, p.ID, old.ID, json.RawMessage(`{"rows":[{"columns":[{"elements":[{"id":"c1","type":"change-card","data":{"title":"Combat"}}]}]}]}`), nil)
	require.NoError(t, err)

	cards, err := f.versions.Cards(ctx, alice, p.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, newer.ID, cards[0].ID)
	assert.Empty(t, cards[0].Cards)
	require.Len(t, cards[1].Cards, 1)
	assert.Equal(t, "Combat", cards[1].Cards[0].Title)
	assert.Equal(t, []domain.Change{}, cards[1].Cards[0].Changes)

	_, err = f.versions.Cards(ctx, bob, p.ID)
	assert.ErrorIs(t, err, projectdomain.ErrNotFound)
}

func TestSections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPrivate)
	v := f.version(t, alice, p.ID, "1.0", "Launch")

	first, err := f.sections.Create(ctx, alice, p.ID, v.ID, domain.CreateSectionRequest{Title: "Intro"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, domain.DefaultLayout, first.Layout)
	assert.Equal(t, domain.DefaultPadding, first.Padding)
	f.clock.advance(time.Second)

	second, err := f.sections.Create(ctx, alice, p.ID, v.ID, domain.CreateSectionRequest{Title: "Changes"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)

	zero := 0
	_, err = f.sections.Update(ctx, alice, p.ID, v.ID, second.ID, domain.UpdateSectionRequest{Order: &zero})
	require.NoError(t, err)

	blk, err := f.sections.CreateBlock(ctx, alice, p.ID, v.ID, second.ID, domain.CreateBlockRequest{Type: "text", Data: json.RawMessage(`{"text":"hi"}`)})
	require.NoError(t, err)
	assert.Equal(t, 0, blk.Order)

	_, err = f.sections.CreateBlock(ctx, alice, p.ID, v.ID, second.ID, domain.CreateBlockRequest{Type: ""})
	var verr *projectdomain.ValidationError
	require.ErrorAs(t, err, &verr)

	list, err := f.sections.List(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "equal order falls back to creation time")
	require.Len(t, list[1].Blocks, 1)

	_, err = f.sections.List(ctx, bob, p.ID, v.ID)
	assert.ErrorIs(t, err, projectdomain.ErrNotFound)

	require.NoError(t, f.sections.DeleteBlock(ctx, alice, p.ID, v.ID, second.ID, blk.ID))
	assert.ErrorIs(t, f.sections.DeleteBlock(ctx, alice, p.ID, v.ID, second.ID, blk.ID), domain.ErrBlockNotFound)
	require.NoError(t, f.sections.Delete(ctx, alice, p.ID, v.ID, first.ID))
}

func TestPublicResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Demo", projectdomain.VisibilityPublic)
	v := f.version(t, alice, p.ID, "1.0", "Launch")
	draft := f.version(t, alice, p.ID, "1.1", "Draft")

	_, err := f.public.Resolve(ctx, *p.Slug, v.ID)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound, "drafts are not public")

	_, err = f.versions.Publish(ctx, alice, p.ID, v.ID)
	require.NoError(t, err)

	byID, err := f.public.Resolve(ctx, *p.Slug, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, byID.Version.ID)
	assert.JSONEq(t, `{"rows":[]}`, string(byID.Page.Content))
	assert.Equal(t, "Demo", byID.Project.Name)

	_, err = f.backfill.Run(ctx, alice)
	require.NoError(t, err)

	bySlug, err := f.public.Resolve(ctx, *p.Slug, "10-launch")
	require.NoError(t, err)
	assert.Equal(t, v.ID, bySlug.Version.ID)

	listed, err := f.public.ListPublished(ctx, *p.Slug)
	require.NoError(t, err)
	require.Len(t, listed.Versions, 1)
	assert.NotEqual(t, draft.ID, listed.Versions[0].ID)

	_, err = f.public.Resolve(ctx, "missing", v.ID)
	assert.ErrorIs(t, err, projectdomain.ErrNotFound)
}

func TestPublicResolve_PrivateProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, alice, "Secret", projectdomain.VisibilityPrivate)
	v, err := f.versions.Create(ctx, alice, p.ID, domain.CreateVersionRequest{Version: "1", Title: "x", IsPublished: true})
	require.NoError(t, err)

	_, err = f.public.Resolve(ctx, *p.Slug, v.ID)
	assert.ErrorIs(t, err, projectdomain.ErrNotFound)
}
