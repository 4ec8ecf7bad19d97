// Package extract turns a URL into readable article text. It runs an ordered
// chain of independent extraction strategies and returns the first result
// that is long enough to be worth narrating.
package extract
