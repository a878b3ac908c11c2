// Package staticlink rewrites dynamic link variables of a build cache into
// static archive paths.
//
// Every LIB_<name> and STLIB_<name> list is split token by token. A token is
// kept dynamic under LIB_<name> when it is on the never-static list or when no
// archive named lib<token>.a or lib<token>_static.a is found under the search
// roots. Otherwise it is recorded under STLIB_<name> as an absolute archive
// path. Tokens that are already archive paths below a static prefix pass
// through unchanged, so a rewritten cache rewrites to itself.
package staticlink
