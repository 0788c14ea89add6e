package services

// Services defined in this package:
// - CourseService: course CRUD and cascade-aware deletion
// - HierarchyService: parent graph mutation, cycle rejection, sibling ordering
// - TeacherCourseService: teacher links with subtree propagation
// - UserCourseService: a user's ordered course plan
// - MaterialService: course materials and their ordering
//
// Every mutation runs through repositories.Atomic so that graph changes,
// ordering maintenance and link propagation commit as one transaction.
