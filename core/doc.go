/*
Package core contains the domain rules of agora: users, groups, memberships
and posts, plus the membership and creatorship checks which gate every write.

Storage is abstracted behind the DBUser, DBGroup and DBPost interfaces and
their UserDB, GroupDB and PostDB counterparts. CoreDB glues the storage
layers together and implements the group and post lifecycles on top of them.
*/
package core
