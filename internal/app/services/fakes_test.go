package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/app/repositories"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

// In-memory store fakes. One memEnv holds the whole dataset; every fake store
// reads and writes it directly, so a test can seed state, run a service call
// and inspect the result without a database.

type linkKey struct {
	teacherID int64
	courseID  int64
}

type enrollKey struct {
	userID   int64
	courseID int64
}

type memEnv struct {
	courses     map[int64]*models.Course
	edges       []*models.CourseParent
	links       map[linkKey]*models.TeacherCourse
	enrollments map[enrollKey]*models.UserCourse
	materials   map[int64]*models.Material
	users       map[int64]*models.User

	nextCourseID   int64
	nextMaterialID int64
	nextUserID     int64

	// lockedCourses records every course id a service locked.
	// courseLockHook runs once on the first lock call, emulating a
	// transaction that committed between an unlocked read and the lock
	// acquisition.
	lockedCourses  map[int64]bool
	courseLockHook func()

	stores *repositories.Stores
}

func newMemEnv() *memEnv {
	env := &memEnv{
		courses:     make(map[int64]*models.Course),
		links:       make(map[linkKey]*models.TeacherCourse),
		enrollments: make(map[enrollKey]*models.UserCourse),
		materials:   make(map[int64]*models.Material),
		users:       make(map[int64]*models.User),

		lockedCourses: make(map[int64]bool),
	}
	env.stores = &repositories.Stores{
		Courses:      &memCourseStore{env: env},
		Edges:        &memEdgeStore{env: env},
		TeacherLinks: &memLinkStore{env: env},
		UserCourses:  &memUserCourseStore{env: env},
		Materials:    &memMaterialStore{env: env},
		Users:        &memUserStore{env: env},
	}
	return env
}

func (e *memEnv) atomic() repositories.Atomic {
	return &fakeAtomic{env: e}
}

// fakeAtomic runs the unit of work directly against the shared state. The
// services guarantee check-before-write, so tests do not need rollback to
// observe rejected mutations leaving the state untouched.
type fakeAtomic struct {
	env *memEnv
}

func (a *fakeAtomic) InTx(ctx context.Context, fn func(ctx context.Context, s *repositories.Stores) error) error {
	return fn(ctx, a.env.stores)
}

func (a *fakeAtomic) Reader() *repositories.Stores {
	return a.env.stores
}

// Seed and inspection helpers.

func (e *memEnv) addCourse(title string) int64 {
	e.nextCourseID++
	e.courses[e.nextCourseID] = &models.Course{
		ID:          e.nextCourseID,
		Title:       title,
		AccessLevel: models.AccessSelfGuided,
		CreatedAt:   time.Now(),
	}
	return e.nextCourseID
}

func (e *memEnv) addUser(isTeacher bool) int64 {
	e.nextUserID++
	e.users[e.nextUserID] = &models.User{
		ID:        e.nextUserID,
		Email:     fmt.Sprintf("user%d@example.com", e.nextUserID),
		FullName:  fmt.Sprintf("User %d", e.nextUserID),
		IsTeacher: isTeacher,
		CreatedAt: time.Now(),
	}
	return e.nextUserID
}

func (e *memEnv) addEdge(courseID, parentID int64, order int32) {
	e.edges = append(e.edges, &models.CourseParent{
		CourseID:       courseID,
		ParentCourseID: parentID,
		OrderNumber:    order,
	})
}

func (e *memEnv) addLink(teacherID, courseID int64) {
	e.links[linkKey{teacherID, courseID}] = &models.TeacherCourse{
		TeacherID: teacherID,
		CourseID:  courseID,
		LinkedAt:  time.Now(),
	}
}

func (e *memEnv) addEnrollment(userID, courseID int64, order int32) {
	e.enrollments[enrollKey{userID, courseID}] = &models.UserCourse{
		UserID:      userID,
		CourseID:    courseID,
		AddedAt:     time.Now(),
		IsActive:    true,
		OrderNumber: order,
	}
}

func (e *memEnv) addMaterial(courseID int64, title string, order int32) int64 {
	e.nextMaterialID++
	e.materials[e.nextMaterialID] = &models.Material{
		ID:            e.nextMaterialID,
		CourseID:      courseID,
		Title:         title,
		ContentType:   models.ContentText,
		IsActive:      true,
		OrderPosition: order,
	}
	return e.nextMaterialID
}

// childOrder returns the parent's child course ids sorted by order number.
func (e *memEnv) childOrder(parentID int64) []int64 {
	type pair struct {
		id  int64
		pos int32
	}
	var pairs []pair
	for _, edge := range e.edges {
		if edge.ParentCourseID == parentID {
			pairs = append(pairs, pair{edge.CourseID, edge.OrderNumber})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].pos < pairs[j].pos })
	out := make([]int64, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.id)
	}
	return out
}

// planOrder returns the user's enrolled course ids sorted by plan position.
func (e *memEnv) planOrder(userID int64) []int64 {
	var rows []*models.UserCourse
	for _, row := range e.enrollments {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].OrderNumber < rows[j].OrderNumber })
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.CourseID)
	}
	return out
}

// materialOrder returns the course's material ids sorted by position.
func (e *memEnv) materialOrder(courseID int64) []int64 {
	var rows []*models.Material
	for _, m := range e.materials {
		if m.CourseID == courseID {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].OrderPosition < rows[j].OrderPosition })
	out := make([]int64, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ID)
	}
	return out
}

// linkedCourses returns the course ids the teacher is linked to, ascending.
func (e *memEnv) linkedCourses(teacherID int64) []int64 {
	var out []int64
	for key := range e.links {
		if key.teacherID == teacherID {
			out = append(out, key.courseID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func posPtr(p int32) *int32 {
	return &p
}

// memSequence adapts any slice of (id, position pointer) pairs to the
// SequenceStore contract.

type seqEntry struct {
	id  int64
	pos *int32
}

type memSequence struct {
	entries func() []seqEntry
}

func (s *memSequence) Members(ctx context.Context) ([]repositories.SequenceMember, error) {
	es := s.entries()
	members := make([]repositories.SequenceMember, 0, len(es))
	for _, e := range es {
		members = append(members, repositories.SequenceMember{ID: e.id, Position: *e.pos})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Position < members[j].Position })
	return members, nil
}

func (s *memSequence) MaxPosition(ctx context.Context) (int32, error) {
	var max int32
	for _, e := range s.entries() {
		if *e.pos > max {
			max = *e.pos
		}
	}
	return max, nil
}

func (s *memSequence) PositionOf(ctx context.Context, memberID int64) (int32, bool, error) {
	for _, e := range s.entries() {
		if e.id == memberID {
			return *e.pos, true, nil
		}
	}
	return 0, false, nil
}

func (s *memSequence) ShiftRange(ctx context.Context, from, to, delta int32, exceptID int64) error {
	for _, e := range s.entries() {
		if e.id == exceptID {
			continue
		}
		if *e.pos >= from && (to == 0 || *e.pos <= to) {
			*e.pos += delta
		}
	}
	return nil
}

func (s *memSequence) SetPosition(ctx context.Context, memberID int64, pos int32) error {
	for _, e := range s.entries() {
		if e.id == memberID {
			*e.pos = pos
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (s *memSequence) Resequence(ctx context.Context) error {
	es := s.entries()
	sort.SliceStable(es, func(i, j int) bool { return *es[i].pos < *es[j].pos })
	for i, e := range es {
		*e.pos = int32(i + 1)
	}
	return nil
}

func (s *memSequence) ApplyPermutation(ctx context.Context, positions map[int64]int32) error {
	for _, e := range s.entries() {
		if pos, ok := positions[e.id]; ok {
			*e.pos = pos
		}
	}
	return nil
}

// memCourseStore

type memCourseStore struct {
	env *memEnv
}

func (s *memCourseStore) Create(ctx context.Context, course *models.Course) error {
	s.env.nextCourseID++
	course.ID = s.env.nextCourseID
	course.CreatedAt = time.Now()
	s.env.courses[course.ID] = course
	return nil
}

func (s *memCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := s.env.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (s *memCourseStore) GetByCourseUID(ctx context.Context, uid string) (*models.Course, error) {
	for _, course := range s.env.courses {
		if course.CourseUID != nil && *course.CourseUID == uid {
			return course, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (s *memCourseStore) GetAll(ctx context.Context) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(s.env.courses))
	for _, course := range s.env.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memCourseStore) GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error) {
	var out []*models.Course
	for _, id := range ids {
		if course, ok := s.env.courses[id]; ok {
			out = append(out, course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memCourseStore) Update(ctx context.Context, course *models.Course) error {
	if _, ok := s.env.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	s.env.courses[course.ID] = course
	return nil
}

// Delete mirrors the ON DELETE CASCADE behaviour of the schema.
func (s *memCourseStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.env.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(s.env.courses, id)

	kept := s.env.edges[:0]
	for _, edge := range s.env.edges {
		if edge.CourseID != id && edge.ParentCourseID != id {
			kept = append(kept, edge)
		}
	}
	s.env.edges = kept

	for key := range s.env.links {
		if key.courseID == id {
			delete(s.env.links, key)
		}
	}
	for key := range s.env.enrollments {
		if key.courseID == id {
			delete(s.env.enrollments, key)
		}
	}
	for mid, m := range s.env.materials {
		if m.CourseID == id {
			delete(s.env.materials, mid)
		}
	}
	return nil
}

func (s *memCourseStore) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := s.env.courses[id]
	return ok, nil
}

func (s *memCourseStore) Lock(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		s.env.lockedCourses[id] = true
	}
	if hook := s.env.courseLockHook; hook != nil {
		s.env.courseLockHook = nil
		hook()
	}
	return nil
}

// memEdgeStore

type memEdgeStore struct {
	env *memEnv
}

func (s *memEdgeStore) ParentsOf(ctx context.Context, courseID int64) ([]*models.CourseParent, error) {
	var out []*models.CourseParent
	for _, edge := range s.env.edges {
		if edge.CourseID == courseID {
			out = append(out, edge)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParentCourseID < out[j].ParentCourseID })
	return out, nil
}

func (s *memEdgeStore) ParentIDs(ctx context.Context, courseID int64) ([]int64, error) {
	var out []int64
	for _, edge := range s.env.edges {
		if edge.CourseID == courseID {
			out = append(out, edge.ParentCourseID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *memEdgeStore) ChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	var out []int64
	for _, edge := range s.env.edges {
		if edge.ParentCourseID == parentID {
			out = append(out, edge.CourseID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *memEdgeStore) ChildrenOrdered(ctx context.Context, parentID int64) ([]*models.OrderedCourse, error) {
	var edges []*models.CourseParent
	for _, edge := range s.env.edges {
		if edge.ParentCourseID == parentID {
			edges = append(edges, edge)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].OrderNumber < edges[j].OrderNumber })

	out := make([]*models.OrderedCourse, 0, len(edges))
	for _, edge := range edges {
		out = append(out, &models.OrderedCourse{
			Course:      s.env.courses[edge.CourseID],
			OrderNumber: edge.OrderNumber,
		})
	}
	return out, nil
}

func (s *memEdgeStore) EdgeExists(ctx context.Context, courseID, parentID int64) (bool, error) {
	for _, edge := range s.env.edges {
		if edge.CourseID == courseID && edge.ParentCourseID == parentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memEdgeStore) HasParents(ctx context.Context, courseID int64) (bool, error) {
	for _, edge := range s.env.edges {
		if edge.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memEdgeStore) InsertEdge(ctx context.Context, courseID, parentID int64, orderNumber int32) error {
	s.env.edges = append(s.env.edges, &models.CourseParent{
		CourseID:       courseID,
		ParentCourseID: parentID,
		OrderNumber:    orderNumber,
	})
	return nil
}

func (s *memEdgeStore) DeleteEdge(ctx context.Context, courseID, parentID int64) (bool, error) {
	for i, edge := range s.env.edges {
		if edge.CourseID == courseID && edge.ParentCourseID == parentID {
			s.env.edges = append(s.env.edges[:i], s.env.edges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memEdgeStore) ChildSequence(parentID int64) repositories.SequenceStore {
	env := s.env
	return &memSequence{entries: func() []seqEntry {
		var out []seqEntry
		for _, edge := range env.edges {
			if edge.ParentCourseID == parentID {
				out = append(out, seqEntry{id: edge.CourseID, pos: &edge.OrderNumber})
			}
		}
		return out
	}}
}

// memLinkStore

type memLinkStore struct {
	env *memEnv
}

func (s *memLinkStore) Insert(ctx context.Context, teacherID, courseID int64) (bool, error) {
	key := linkKey{teacherID, courseID}
	if _, ok := s.env.links[key]; ok {
		return false, nil
	}
	s.env.links[key] = &models.TeacherCourse{
		TeacherID: teacherID,
		CourseID:  courseID,
		LinkedAt:  time.Now(),
	}
	return true, nil
}

func (s *memLinkStore) Delete(ctx context.Context, teacherID, courseID int64) (bool, error) {
	key := linkKey{teacherID, courseID}
	if _, ok := s.env.links[key]; !ok {
		return false, nil
	}
	delete(s.env.links, key)
	return true, nil
}

func (s *memLinkStore) Exists(ctx context.Context, teacherID, courseID int64) (bool, error) {
	_, ok := s.env.links[linkKey{teacherID, courseID}]
	return ok, nil
}

func (s *memLinkStore) TeacherIDs(ctx context.Context, courseID int64) ([]int64, error) {
	var out []int64
	for key := range s.env.links {
		if key.courseID == courseID {
			out = append(out, key.teacherID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *memLinkStore) CourseIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	var out []int64
	for key := range s.env.links {
		if key.teacherID == teacherID {
			out = append(out, key.courseID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *memLinkStore) ListByCourse(ctx context.Context, courseID int64) ([]*models.TeacherCourse, error) {
	var out []*models.TeacherCourse
	for key, link := range s.env.links {
		if key.courseID == courseID {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeacherID < out[j].TeacherID })
	return out, nil
}

func (s *memLinkStore) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherCourse, error) {
	var out []*models.TeacherCourse
	for key, link := range s.env.links {
		if key.teacherID == teacherID {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (s *memLinkStore) InsertMany(ctx context.Context, teacherID int64, courseIDs []int64) error {
	for _, courseID := range courseIDs {
		if _, err := s.Insert(ctx, teacherID, courseID); err != nil {
			return err
		}
	}
	return nil
}

func (s *memLinkStore) DeleteMany(ctx context.Context, teacherID int64, courseIDs []int64) error {
	for _, courseID := range courseIDs {
		delete(s.env.links, linkKey{teacherID, courseID})
	}
	return nil
}

// memUserCourseStore

type memUserCourseStore struct {
	env *memEnv
}

func (s *memUserCourseStore) Get(ctx context.Context, userID, courseID int64) (*models.UserCourse, error) {
	row, ok := s.env.enrollments[enrollKey{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrUserCourseNotFound
	}
	return row, nil
}

func (s *memUserCourseStore) Insert(ctx context.Context, row *models.UserCourse) error {
	row.AddedAt = time.Now()
	s.env.enrollments[enrollKey{row.UserID, row.CourseID}] = row
	return nil
}

func (s *memUserCourseStore) Delete(ctx context.Context, userID, courseID int64) (bool, error) {
	key := enrollKey{userID, courseID}
	if _, ok := s.env.enrollments[key]; !ok {
		return false, nil
	}
	delete(s.env.enrollments, key)
	return true, nil
}

func (s *memUserCourseStore) ListByUser(ctx context.Context, userID int64) ([]*models.UserCourse, error) {
	var out []*models.UserCourse
	for _, row := range s.env.enrollments {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out, nil
}

func (s *memUserCourseStore) UserIDsForCourse(ctx context.Context, courseID int64) ([]int64, error) {
	var out []int64
	for key := range s.env.enrollments {
		if key.courseID == courseID {
			out = append(out, key.userID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *memUserCourseStore) Sequence(userID int64) repositories.SequenceStore {
	env := s.env
	return &memSequence{entries: func() []seqEntry {
		var out []seqEntry
		for _, row := range env.enrollments {
			if row.UserID == userID {
				out = append(out, seqEntry{id: row.CourseID, pos: &row.OrderNumber})
			}
		}
		return out
	}}
}

// memMaterialStore

type memMaterialStore struct {
	env *memEnv
}

func (s *memMaterialStore) Create(ctx context.Context, material *models.Material) error {
	if material.ExternalUID != nil {
		for _, m := range s.env.materials {
			if m.CourseID == material.CourseID && m.ExternalUID != nil && *m.ExternalUID == *material.ExternalUID {
				return apperrors.ErrMaterialUIDExists
			}
		}
	}
	s.env.nextMaterialID++
	material.ID = s.env.nextMaterialID
	material.CreatedAt = time.Now()
	material.UpdatedAt = material.CreatedAt
	s.env.materials[material.ID] = material
	return nil
}

func (s *memMaterialStore) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	material, ok := s.env.materials[id]
	if !ok {
		return nil, apperrors.ErrMaterialNotFound
	}
	return material, nil
}

func (s *memMaterialStore) ListByCourse(ctx context.Context, courseID int64) ([]*models.Material, error) {
	var out []*models.Material
	for _, m := range s.env.materials {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderPosition < out[j].OrderPosition })
	return out, nil
}

// Update changes content fields only, like the SQL repository.
func (s *memMaterialStore) Update(ctx context.Context, material *models.Material) error {
	existing, ok := s.env.materials[material.ID]
	if !ok {
		return apperrors.ErrMaterialNotFound
	}
	existing.Title = material.Title
	existing.ContentType = material.ContentType
	existing.ContentURL = material.ContentURL
	existing.Description = material.Description
	existing.Caption = material.Caption
	existing.IsActive = material.IsActive
	existing.ExternalUID = material.ExternalUID
	existing.UpdatedAt = time.Now()
	return nil
}

func (s *memMaterialStore) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.env.materials[id]; !ok {
		return false, nil
	}
	delete(s.env.materials, id)
	return true, nil
}

func (s *memMaterialStore) Sequence(courseID int64) repositories.SequenceStore {
	env := s.env
	return &memSequence{entries: func() []seqEntry {
		var out []seqEntry
		for _, m := range env.materials {
			if m.CourseID == courseID {
				out = append(out, seqEntry{id: m.ID, pos: &m.OrderPosition})
			}
		}
		return out
	}}
}

// memUserStore

type memUserStore struct {
	env *memEnv
}

func (s *memUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := s.env.users[id]
	return ok, nil
}

func (s *memUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.env.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) Lock(ctx context.Context, id int64) error {
	if _, ok := s.env.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}
