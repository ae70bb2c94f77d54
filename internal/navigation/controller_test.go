package navigation

import (
	"testing"
	"time"

	"github.com/mdabutalebdev/cv-maker/internal/progress"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(opts ...Option) (*Controller, *progress.VirtualScheduler) {
	sched := progress.NewVirtualScheduler(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(progress.New(sched), opts...), sched
}

func TestNew_StartsAtLanding(t *testing.T) {
	c, _ := newController()

	assert.Equal(t, steps.Landing, c.Current())
	assert.False(t, c.Generating())
}

func TestWithStart(t *testing.T) {
	c, _ := newController(WithStart(steps.ContactInformation))
	assert.Equal(t, steps.ContactInformation, c.Current())

	c, _ = newController(WithStart(steps.Step(42)))
	assert.Equal(t, steps.Landing, c.Current(), "invalid start falls back to landing")
}

func TestNext_LinearThroughStepFive(t *testing.T) {
	c, _ := newController()

	for want := steps.PersonalInfo; want <= steps.Generation; want++ {
		got, err := c.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, steps.Generation, c.Furthest())
}

func TestBack_FromFirstStepGoesToLandingAndStopsGeneration(t *testing.T) {
	for _, generating := range []bool{true, false} {
		c, _ := newController(WithStart(steps.PersonalInfo))
		if generating {
			// arm directly so the flag is set regardless of step
			c.animator.Arm()
			require.True(t, c.Generating())
		}

		assert.Equal(t, steps.Landing, c.Back())
		assert.False(t, c.Generating())
	}
}

func TestBack_Decrements(t *testing.T) {
	c, _ := newController(WithStart(steps.ContactInformation))

	assert.Equal(t, steps.EducationCertifications, c.Back())
	assert.Equal(t, steps.SkillsExperience, c.Back())
}

func TestBack_AtLandingIsNoop(t *testing.T) {
	c, _ := newController()

	assert.Equal(t, steps.Landing, c.Back())
}

func TestNext_OnGenerationArmsWithoutAdvancing(t *testing.T) {
	c, sched := newController(WithStart(steps.Generation))

	got, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, steps.Generation, got)
	assert.True(t, c.Generating())

	sched.Advance(5 * time.Second)
	assert.Equal(t, steps.Generation, c.Current())

	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, steps.Review, c.Current())
	assert.False(t, c.Generating())
}

func TestNext_OnReviewIsDisabled(t *testing.T) {
	c, _ := newController(WithStart(steps.Review))

	got, err := c.Next()
	assert.ErrorIs(t, err, ErrForwardDisabled)
	assert.Equal(t, steps.Review, got)
}

func TestBack_DuringGenerationCancelsCompletion(t *testing.T) {
	c, sched := newController(WithStart(steps.Generation))
	_, err := c.Next()
	require.NoError(t, err)
	sched.Advance(3 * time.Second)

	assert.Equal(t, steps.ContactInformation, c.Back())
	sched.Advance(10 * time.Second)

	assert.Equal(t, steps.ContactInformation, c.Current())
	assert.False(t, c.Generating())
}

func TestNavigate_AwayFromGenerationCancels(t *testing.T) {
	c, sched := newController(WithStart(steps.Generation))
	_, _ = c.Next()
	sched.Advance(time.Second)

	require.NoError(t, c.Navigate(steps.PersonalInfo))
	sched.Advance(10 * time.Second)

	assert.Equal(t, steps.PersonalInfo, c.Current())
	assert.False(t, c.Generating())
}

func TestNavigate_PermissiveByDefault(t *testing.T) {
	c, _ := newController()

	require.NoError(t, c.Navigate(steps.Review))
	assert.Equal(t, steps.Review, c.Current())
	assert.Equal(t, steps.Review, c.Furthest())

	require.NoError(t, c.Navigate(steps.Landing))
	assert.Equal(t, steps.Landing, c.Current())
}

func TestNavigate_InvalidStep(t *testing.T) {
	c, _ := newController()

	err := c.Navigate(steps.Step(8))
	var invalid *steps.InvalidStepError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, steps.Landing, c.Current())
}

func TestNavigate_StrictRefusesUnreachedSteps(t *testing.T) {
	c, _ := newController(WithStrictJumps(true), WithStart(steps.CareerSummary))

	err := c.Navigate(steps.ContactInformation)
	var locked *LockedStepError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, steps.CareerSummary, locked.Furthest)

	require.NoError(t, c.Navigate(steps.PersonalInfo))
	require.NoError(t, c.Navigate(steps.CareerSummary), "already reached")
}

func TestGenerationCompletionOffStepIsIgnored(t *testing.T) {
	c, _ := newController(WithStart(steps.Generation))
	c.mu.Lock()
	c.current = steps.CareerSummary
	c.mu.Unlock()

	c.generated()

	assert.Equal(t, steps.CareerSummary, c.Current())
}

func TestOnChange(t *testing.T) {
	c, sched := newController(WithStart(steps.ContactInformation))
	var changes [][2]steps.Step
	c.OnChange(func(from, to steps.Step) { changes = append(changes, [2]steps.Step{from, to}) })

	_, _ = c.Next()
	_, _ = c.Next()
	sched.Advance(6 * time.Second)
	c.Back()

	assert.Equal(t, [][2]steps.Step{
		{steps.ContactInformation, steps.Generation},
		{steps.Generation, steps.Review},
		{steps.Review, steps.Generation},
	}, changes)
}

func TestActions(t *testing.T) {
	ids := func(actions []Action) []string {
		var out []string
		for _, a := range actions {
			out = append(out, a.ID+":"+a.Label)
		}
		return out
	}

	c, _ := newController()
	assert.Equal(t, []string{"start:Start Building"}, ids(c.Actions()))

	c, _ = newController(WithStart(steps.PersonalInfo))
	assert.Equal(t, []string{"back:Home", "next:Next"}, ids(c.Actions()))

	c, _ = newController(WithStart(steps.CareerSummary))
	assert.Equal(t, []string{"back:Back", "next:Next"}, ids(c.Actions()))

	c, _ = newController(WithStart(steps.Generation))
	assert.Equal(t, []string{"back:Back", "next:Generate Resume"}, ids(c.Actions()))
	_, _ = c.Next()
	assert.False(t, c.Actions()[1].Enabled, "generate is disabled while running")

	c, _ = newController(WithStart(steps.Review))
	assert.Equal(t, []string{"back:Back", "download:Download Resume", "find-job:Find Your Favorite Job"}, ids(c.Actions()))
}
