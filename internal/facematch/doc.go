// Package facematch finds the event media that contain a user's enrolled
// face.
//
// Known limitation: the similarity score is a geometric heuristic over
// bounding boxes with a small bonus for matching attributes (glasses,
// dominant emotion). It does not compare face embeddings, since the
// detectors run in detection-only mode. Scores near the threshold may need
// manual confirmation by the user.
package facematch
