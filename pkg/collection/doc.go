// Package collection turns a schema and a set of constraints into lazy
// sequences of records.
//
// Two pagination strategies sit behind one pager interface. Collection pages
// by offset and limit, requesting at most per_page items at a time and
// stopping on a short page or when the limit is reached. Feed follows a
// cursor through the delta endpoint until the server reports no further
// changes.
//
// Sequences are pull based: nothing is fetched until the caller ranges over
// them, and breaking out of the loop stops further requests.
//
//	events, err := service.Events().Where(map[string]any{"calendar_id": id})
//	if err != nil {
//		return err
//	}
//	for event, err := range events.Limit(250).All(ctx) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(event.GetString("title"))
//	}
package collection
