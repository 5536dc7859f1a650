// Package session holds the per-user selection and result cache.
//
// A Session is scoped to exactly one model.SelectionKey. Changing the scope
// with SetScope always drops the selection and every cached result, so data
// fetched for one race can never be shown or exported for another:
//
//	sess := session.New(section.Default())
//	sess.SetScope(model.SelectionKey{Season: 2024, Round: 8})
//	sess.Toggle(section.RaceResults)
//	sess.Toggle(section.LapTimes)
//
//	cache, err := fetch.Run(ctx, orchestrator, sess, nil)
//
// Session methods are safe for concurrent use.
package session
