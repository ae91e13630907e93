/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary key, chosen by the caller.
* It may possess secondary indexes (1:N), maintained on every write.
* Easy queries for one and iteration over an index.
*/
package orm
