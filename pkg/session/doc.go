/*
Package session manages the editors of many documents.

It caches one editor per document and serializes access to it with a
reference-counted local lock. With a distributed locker, every locked
operation first reloads the editor from the shared store so that mutations
made on other replicas are not lost.
*/
package session
