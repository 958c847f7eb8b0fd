/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of Model, which is stored
RLP encoded under a key unique within the bucket.

Sequences provide monotonically increasing counters that
survive in the same store as the data they index.
*/
package orm
