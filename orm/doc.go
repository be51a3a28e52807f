/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called buckets.
Each bucket contains only one type of model, stored under a primary key
that is joined with the bucket prefix. Models are protobuf messages that
validate themselves before they are written.

Sequences provide monotonically increasing, 8 byte big endian keys so that
iteration over a bucket keyed by a sequence follows insertion order.
*/
package orm
