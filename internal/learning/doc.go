// Package learning holds the pure aggregation rules behind quizzes and
// analytics: grading, daily practice merging, streaks, achievements, mistake
// review, progress reports, study plan progress and the leaderboard.
//
// Nothing here touches storage; services load rows and hand them in.
package learning
