package chemjson

//Package chemjson implements serialization and unserialization of
//goMMFF systems, i.e. a set of coordinates together with the already
//parameterized force field terms for them. It is the way for external
//programs (the ones that assign MMFF94 types and parameters) to give
//molecules to goMMFF, and to get the results back.
//Files ending in .zst are compressed with zstd, and files ending in .gz
//with gzip.
