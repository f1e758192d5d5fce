package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/RitamPal26/student-progress-site/codeforces"
	"github.com/RitamPal26/student-progress-site/models"
	"github.com/RitamPal26/student-progress-site/repositories"
)

// In-memory fakes for the repository and judge-client interfaces. They
// mirror the upsert and filter semantics of the Postgres implementations
// closely enough for the pipeline tests.

type fakeStudentRepo struct {
	students map[int]*models.Student
	nextID   int
}

func newFakeStudentRepo(students ...*models.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: make(map[int]*models.Student), nextID: 1}
	for _, s := range students {
		copied := *s
		if copied.ID == 0 {
			copied.ID = r.nextID
		}
		if copied.ID >= r.nextID {
			r.nextID = copied.ID + 1
		}
		r.students[copied.ID] = &copied
	}
	return r
}

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	for _, existing := range r.students {
		if existing.Email == student.Email {
			return repositories.ErrStudentEmailConflict
		}
		if existing.Handle == student.Handle {
			return repositories.ErrStudentHandleConflict
		}
	}
	student.ID = r.nextID
	r.nextID++
	student.CreatedAt = time.Now()
	copied := *student
	r.students[student.ID] = &copied
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id int) (*models.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, repositories.ErrStudentNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeStudentRepo) List(_ context.Context) ([]models.Student, error) {
	ids := make([]int, 0, len(r.students))
	for id := range r.students {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.students[id])
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	if _, ok := r.students[student.ID]; !ok {
		return repositories.ErrStudentNotFound
	}
	copied := *student
	r.students[student.ID] = &copied
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.students[id]; !ok {
		return repositories.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) UpdateRatings(_ context.Context, id, currentRating, maxRating int, syncedAt time.Time) error {
	s, ok := r.students[id]
	if !ok {
		return repositories.ErrStudentNotFound
	}
	s.CurrentRating = currentRating
	s.MaxRating = maxRating
	s.LastSyncedAt = &syncedAt
	return nil
}

func (r *fakeStudentRepo) IncrementReminderCount(_ context.Context, id int) error {
	s, ok := r.students[id]
	if !ok {
		return repositories.ErrStudentNotFound
	}
	s.ReminderCount++
	return nil
}

type contestKey struct {
	studentID int
	contestID int
}

type fakeContestRepo struct {
	contests map[contestKey]*models.Contest
	nextID   int
}

func newFakeContestRepo() *fakeContestRepo {
	return &fakeContestRepo{contests: make(map[contestKey]*models.Contest), nextID: 1}
}

func (r *fakeContestRepo) Upsert(_ context.Context, contest *models.Contest) error {
	key := contestKey{contest.StudentID, contest.ContestID}
	if existing, ok := r.contests[key]; ok {
		existing.ContestName = contest.ContestName
		existing.Rank = contest.Rank
		existing.RatingChange = contest.RatingChange
		existing.NewRating = contest.NewRating
		existing.ContestDate = contest.ContestDate
		// problems_solved survives the upsert, same as the SQL conflict set
		contest.ID = existing.ID
		return nil
	}
	contest.ID = r.nextID
	r.nextID++
	copied := *contest
	r.contests[key] = &copied
	return nil
}

func (r *fakeContestRepo) UpdateProblemsSolved(_ context.Context, studentID, contestID, solved int) error {
	if c, ok := r.contests[contestKey{studentID, contestID}]; ok {
		c.ProblemsSolved = solved
	}
	return nil
}

func (r *fakeContestRepo) ListByStudentSince(_ context.Context, studentID int, from time.Time) ([]models.Contest, error) {
	out := make([]models.Contest, 0)
	for _, c := range r.contests {
		if c.StudentID == studentID && !c.ContestDate.Before(from) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContestDate.Before(out[j].ContestDate) })
	return out, nil
}

func (r *fakeContestRepo) get(studentID, contestID int) *models.Contest {
	return r.contests[contestKey{studentID, contestID}]
}

type fakeSubmissionRepo struct {
	submissions map[int64]*models.Submission
	nextID      int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[int64]*models.Submission), nextID: 1}
}

func (r *fakeSubmissionRepo) Upsert(_ context.Context, submission *models.Submission) error {
	if existing, ok := r.submissions[submission.SubmissionID]; ok {
		id := existing.ID
		*existing = *submission
		existing.ID = id
		submission.ID = id
		return nil
	}
	submission.ID = r.nextID
	r.nextID++
	copied := *submission
	r.submissions[submission.SubmissionID] = &copied
	return nil
}

func (r *fakeSubmissionRepo) ListByStudent(_ context.Context, studentID int, after *time.Time) ([]models.Submission, error) {
	out := make([]models.Submission, 0)
	for _, s := range r.submissions {
		if s.StudentID != studentID {
			continue
		}
		if after != nil && s.SubmissionTime.Before(*after) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionTime.After(out[j].SubmissionTime) })
	return out, nil
}

func (r *fakeSubmissionRepo) ListAcceptedSince(_ context.Context, studentID int, from time.Time) ([]models.Submission, error) {
	out := make([]models.Submission, 0)
	for _, s := range r.submissions {
		if s.StudentID == studentID && s.Verdict == models.VerdictAccepted && !s.SubmissionTime.Before(from) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionTime.Before(out[j].SubmissionTime) })
	return out, nil
}

func (r *fakeSubmissionRepo) LatestTime(_ context.Context, studentID int) (*time.Time, error) {
	var latest *time.Time
	for _, s := range r.submissions {
		if s.StudentID != studentID {
			continue
		}
		ts := s.SubmissionTime
		if latest == nil || ts.After(*latest) {
			latest = &ts
		}
	}
	return latest, nil
}

type fakeJudge struct {
	ratings     map[string][]codeforces.RatingChange
	submissions map[string][]codeforces.Submission
	failing     map[string]error
}

func newFakeJudge() *fakeJudge {
	return &fakeJudge{
		ratings:     make(map[string][]codeforces.RatingChange),
		submissions: make(map[string][]codeforces.Submission),
		failing:     make(map[string]error),
	}
}

func (j *fakeJudge) FetchRatingHistory(_ context.Context, handle string) ([]codeforces.RatingChange, error) {
	if err := j.failing[handle]; err != nil {
		return nil, err
	}
	return j.ratings[handle], nil
}

func (j *fakeJudge) FetchSubmissions(_ context.Context, handle string) ([]codeforces.Submission, error) {
	if err := j.failing[handle]; err != nil {
		return nil, err
	}
	return j.submissions[handle], nil
}

type fakeNotifier struct {
	notified []int
	err      error
}

func (n *fakeNotifier) Notify(_ context.Context, student *models.Student) error {
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, student.ID)
	return nil
}

var errJudgeDown = errors.New("judge unavailable")
